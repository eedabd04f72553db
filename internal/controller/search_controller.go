package controller

import (
	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/pkg/serverutils"
	"catalog-console-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	LoadMore(ctx *fiber.Ctx) error
}

type searchController struct {
	service service.ISearchService
}

func NewSearchController(service service.ISearchService) ISearchController {
	return &searchController{service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/query", c.Query)
	h.Post("/more", c.LoadMore)
}

func (c *searchController) Query(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Locals("user_id").(string))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}

	var req dto.SearchQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Query(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrSuperseded {
			return fiber.NewError(fiber.StatusConflict, "search superseded by a newer request")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results fetched", res))
}

func (c *searchController) LoadMore(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Locals("user_id").(string))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}

	var req dto.SearchMoreRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.LoadMore(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrSuperseded {
			return fiber.NewError(fiber.StatusConflict, "search superseded by a newer request")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("More results fetched", res))
}
