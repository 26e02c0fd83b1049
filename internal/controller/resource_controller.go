package controller

import (
	"aia-campus-be/internal/dto"
	"aia-campus-be/internal/pkg/serverutils"
	"aia-campus-be/internal/service"
	"aia-campus-be/pkg/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IResourceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListByLesson(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type resourceController struct {
	resourceService service.IResourceService
}

func NewResourceController(resourceService service.IResourceService) IResourceController {
	return &resourceController{
		resourceService: resourceService,
	}
}

func (c *resourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/resource/v1")
	h.Use(serverutils.RoleMiddleware)
	h.Post("semantic-search", c.SemanticSearch)
	h.Get("", c.ListByLesson)
	h.Post("", serverutils.RequireCapability(policy.ActionCreate, policy.ItemResource), c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/retry", serverutils.RequireCapability(policy.ActionUpdate, policy.ItemResource), c.Retry)
	h.Post(":id/ask", c.Ask)
	h.Delete(":id", serverutils.RequireCapability(policy.ActionDelete, policy.ItemResource), c.Delete)
}

func (c *resourceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateResourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.resourceService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create resource", res))
}

func (c *resourceController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resource id")
	}

	res, err := c.resourceService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show resource", res))
}

func (c *resourceController) ListByLesson(ctx *fiber.Ctx) error {
	courseCode := ctx.Query("course_code")
	lessonId := ctx.Query("lesson_id")
	if courseCode == "" || lessonId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "course_code and lesson_id query params are required")
	}

	res, err := c.resourceService.ListByLesson(ctx.Context(), courseCode, lessonId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list resources", res))
}

func (c *resourceController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resource id")
	}

	if err := c.resourceService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete resource", nil))
}

func (c *resourceController) Retry(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resource id")
	}

	res, err := c.resourceService.Retry(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success retry resource", res))
}

func (c *resourceController) SemanticSearch(ctx *fiber.Ctx) error {
	var req dto.SearchResourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.resourceService.SemanticSearch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search resources", res))
}

func (c *resourceController) Ask(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resource id")
	}

	var req dto.AskResourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.resourceService.Ask(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask resource", res))
}
