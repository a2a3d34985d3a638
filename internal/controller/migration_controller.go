package controller

import (
	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/pkg/serverutils"
	"hybrid-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMigrationController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Rollback(ctx *fiber.Ctx) error
}

type migrationController struct {
	migrationService service.IMigrationService
}

func NewMigrationController(migrationService service.IMigrationService) IMigrationController {
	return &migrationController{
		migrationService: migrationService,
	}
}

func (c *migrationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/migration/v1")
	h.Post("", c.Start)
	h.Get(":id", c.Status)
	h.Post(":id/rollback", c.Rollback)
}

func (c *migrationController) Start(ctx *fiber.Ctx) error {
	var req dto.MigrationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.migrationService.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Migration finished", res))
}

func (c *migrationController) Status(ctx *fiber.Ctx) error {
	res, err := c.migrationService.Status(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Migration status", res))
}

func (c *migrationController) Rollback(ctx *fiber.Ctx) error {
	res, err := c.migrationService.Rollback(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Migration rolled back", res))
}
