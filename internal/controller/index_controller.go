package controller

import (
	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/pkg/serverutils"
	"hybrid-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIndexController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type indexController struct {
	indexService service.IIndexService
}

func NewIndexController(indexService service.IIndexService) IIndexController {
	return &indexController{
		indexService: indexService,
	}
}

func (c *indexController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/index/v1")
	h.Post("", c.Index)
	h.Delete(":id", c.Delete)
}

func (c *indexController) Index(ctx *fiber.Ctx) error {
	var req dto.IndexRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.indexService.Index(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success index documents", res))
}

func (c *indexController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	namespace := ctx.Query("namespace", "default")

	if err := c.indexService.Delete(ctx.Context(), id, namespace); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
