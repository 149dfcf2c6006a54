package controller

import (
	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/serverutils"
	"catalog-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
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
	r.Post("/buscar-ceratizit", c.Search)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	resultado := c.searchService.Find(ctx.Context(), req.Consulta)
	return ctx.JSON(dto.SearchResponse{Resultado: resultado})
}
