package controller

import (
	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProgressController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	MarkLessonViewed(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type progressController struct {
	progressService service.IProgressService
}

func NewProgressController(progressService service.IProgressService) IProgressController {
	return &progressController{
		progressService: progressService,
	}
}

func (c *progressController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/progress/v1")
	h.Use(serverutils.RoleMiddleware)
	h.Post("start", c.Start)
	h.Post("lesson-viewed", c.MarkLessonViewed)
	h.Get(":courseCode", c.Show)
}

func (c *progressController) Start(ctx *fiber.Ctx) error {
	userId := ctx.Locals(serverutils.LocalsUserId).(string)

	var req dto.StartCourseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.progressService.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start course", res))
}

func (c *progressController) MarkLessonViewed(ctx *fiber.Ctx) error {
	userId := ctx.Locals(serverutils.LocalsUserId).(string)

	var req dto.MarkLessonViewedRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.progressService.MarkLessonViewed(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark lesson viewed", res))
}

func (c *progressController) Show(ctx *fiber.Ctx) error {
	userId := ctx.Locals(serverutils.LocalsUserId).(string)
	courseCode := ctx.Params("courseCode")

	res, err := c.progressService.Show(ctx.Context(), userId, courseCode)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show course progress", res))
}
