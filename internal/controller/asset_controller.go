package controller

import (
	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/pkg/serverutils"
	"catalog-console-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssetController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetById(ctx *fiber.Ctx) error
	Lineage(ctx *fiber.Ctx) error
}

type assetController struct {
	service service.IAssetService
}

func NewAssetController(service service.IAssetService) IAssetController {
	return &assetController{service: service}
}

func (c *assetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/asset/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Create)
	h.Get("/:id", c.GetById)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Get("/:id/lineage", c.Lineage)
}

func (c *assetController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateAssetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Asset created", res))
}

func (c *assetController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid asset id")
	}

	var req dto.UpdateAssetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), id, &req)
	if err != nil {
		if err == service.ErrAssetNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Asset updated", res))
}

func (c *assetController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid asset id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		if err == service.ErrAssetNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Asset deleted", nil))
}

func (c *assetController) GetById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid asset id")
	}

	res, err := c.service.GetById(ctx.Context(), id)
	if err != nil {
		if err == service.ErrAssetNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Asset fetched", res))
}

func (c *assetController) Lineage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid asset id")
	}

	res, err := c.service.Lineage(ctx.Context(), id)
	if err != nil {
		if err == service.ErrAssetNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Lineage fetched", res))
}
