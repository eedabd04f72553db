package controller

import (
	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/pkg/serverutils"
	"catalog-console-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IQualityController interface {
	RegisterRoutes(r fiber.Router)
	LatestReport(ctx *fiber.Ctx) error
	ListIssues(ctx *fiber.Ctx) error
	Remediate(ctx *fiber.Ctx) error
	Resolve(ctx *fiber.Ctx) error
}

type qualityController struct {
	service service.IQualityService
}

func NewQualityController(service service.IQualityService) IQualityController {
	return &qualityController{service: service}
}

func (c *qualityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quality/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/report/:assetId", c.LatestReport)
	h.Get("/issues", c.ListIssues)
	h.Post("/issues/:id/remediate", c.Remediate)
	h.Post("/issues/:id/resolve", c.Resolve)
}

func (c *qualityController) LatestReport(ctx *fiber.Ctx) error {
	assetId, err := uuid.Parse(ctx.Params("assetId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid asset id")
	}

	res, err := c.service.LatestReport(ctx.Context(), assetId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "no quality report for asset")
	}

	return ctx.JSON(serverutils.SuccessResponse("Report fetched", res))
}

func (c *qualityController) ListIssues(ctx *fiber.Ctx) error {
	status := ctx.Query("status")

	res, err := c.service.ListIssues(ctx.Context(), status)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Issues fetched", res))
}

func (c *qualityController) Remediate(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid issue id")
	}

	var req dto.RemediateIssueRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Remediate(ctx.Context(), id, &req)
	if err != nil {
		if err == service.ErrIssueNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Issue assigned for remediation", res))
}

func (c *qualityController) Resolve(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid issue id")
	}

	res, err := c.service.Resolve(ctx.Context(), id)
	if err != nil {
		if err == service.ErrIssueNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Issue resolved", res))
}
