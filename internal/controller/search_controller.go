package controller

import (
	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/pkg/serverutils"
	"hybrid-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	InvalidateCache(ctx *fiber.Ctx) error
	CacheStats(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Post("", c.Search)
	h.Delete("cache", c.InvalidateCache)
	h.Get("stats", c.CacheStats)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search", res))
}

func (c *searchController) InvalidateCache(ctx *fiber.Ctx) error {
	prefix := ctx.Query("prefix", "")
	res := c.searchService.InvalidateCache(ctx.Context(), prefix)
	return ctx.JSON(serverutils.SuccessResponse("Success invalidate cache", res))
}

func (c *searchController) CacheStats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Cache statistics", c.searchService.CacheStats()))
}
