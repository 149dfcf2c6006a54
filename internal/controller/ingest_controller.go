package controller

import (
	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/serverutils"
	"catalog-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Namespaces(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestService service.IIngestService
}

func NewIngestController(ingestService service.IIngestService) IIngestController {
	return &ingestController{
		ingestService: ingestService,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	r.Post("/subir", c.Upload)
	r.Get("/namespaces", c.Namespaces)
}

func (c *ingestController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	// Validate before touching the registry: a rejected upload must not
	// register its namespace.
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.Upload(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// Namespaces answers with a bare JSON array of names.
func (c *ingestController) Namespaces(ctx *fiber.Ctx) error {
	return ctx.JSON(c.ingestService.Namespaces())
}
