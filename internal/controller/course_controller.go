package controller

import (
	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/service"
	"aia-campus-be/pkg/policy"

	"github.com/gofiber/fiber/v2"
)

type ICourseController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ToggleTask(ctx *fiber.Ctx) error
}

type courseController struct {
	courseService service.ICourseService
}

func NewCourseController(courseService service.ICourseService) ICourseController {
	return &courseController{
		courseService: courseService,
	}
}

func (c *courseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/course/v1")
	h.Use(serverutils.RoleMiddleware)
	h.Get("", c.List)
	h.Post("", serverutils.RequireCapability(policy.ActionCreate, policy.ItemCourse), c.Create)
	h.Get(":code", c.Show)
	h.Put(":code", serverutils.RequireCapability(policy.ActionUpdate, policy.ItemCourse), c.Update)
	h.Delete(":code", serverutils.RequireCapability(policy.ActionDelete, policy.ItemCourse), c.Delete)
	h.Post(":code/lessons/:lessonId/tasks/:taskId/toggle", serverutils.RequireCapability(policy.ActionToggle, policy.ItemTask), c.ToggleTask)
}

func (c *courseController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.courseService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create course", res))
}

func (c *courseController) Show(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	res, err := c.courseService.Show(ctx.Context(), code)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show course", res))
}

func (c *courseController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateCourseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Code = ctx.Params("code")

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.courseService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update course", res))
}

func (c *courseController) Delete(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	err := c.courseService.Delete(ctx.Context(), code)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete course", nil))
}

func (c *courseController) ToggleTask(ctx *fiber.Ctx) error {
	res, err := c.courseService.ToggleTask(ctx.Context(), ctx.Params("code"), ctx.Params("lessonId"), ctx.Params("taskId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle task", res))
}

func (c *courseController) List(ctx *fiber.Ctx) error {
	res, err := c.courseService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list courses", res))
}
