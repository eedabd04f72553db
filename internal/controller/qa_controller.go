package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/pkg/serverutils"
	"catalog-console-be/internal/service"
	"catalog-console-be/pkg/qastream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IQaController interface {
	RegisterRoutes(r fiber.Router)
	EnsureSession(ctx *fiber.Ctx) error
	QuickAnswer(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type qaController struct {
	service service.IQaService
}

func NewQaController(service service.IQaService) IQaController {
	return &qaController{service: service}
}

func (c *qaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/qa/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/session", c.EnsureSession)
	h.Get("/quick-answer", c.QuickAnswer)
	h.Get("/chat", c.Chat)
	h.Post("/stop", c.Stop)
	h.Post("/reset", c.Reset)
	h.Post("/feedback", c.Feedback)
	h.Get("/session/:id/history", c.History)
}

func userIdFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}
	return userId, nil
}

func (c *qaController) EnsureSession(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.EnsureSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session ready", res))
}

func (c *qaController) QuickAnswer(ctx *fiber.Ctx) error {
	return c.stream(ctx, c.service.AskQuickAnswer)
}

func (c *qaController) Chat(ctx *fiber.Ctx) error {
	return c.stream(ctx, c.service.AskChat)
}

type askFunc func(ctx context.Context, userId uuid.UUID, req *dto.QaAskRequest) (<-chan qastream.Update, error)

func (c *qaController) stream(ctx *fiber.Ctx, ask askFunc) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return err
	}

	// EventSource clients can only issue GETs; parameters ride in the query
	// string.
	req := dto.QaAskRequest{
		Query:     ctx.Query("query"),
		AssetType: ctx.Query("asset_type"),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	updates, err := ask(ctx.Context(), userId, &req)
	if err != nil {
		if err == qastream.ErrReauthRequired {
			return fiber.NewError(fiber.StatusUnauthorized, "answer engine session expired")
		}
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for update := range updates {
			frame := updateToEvent(update)
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

func (c *qaController) Stop(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return err
	}

	c.service.Stop(userId)

	return ctx.JSON(serverutils.SuccessResponse[any]("Stream stopped", nil))
}

func (c *qaController) Reset(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return err
	}

	c.service.ResetSession(userId)

	return ctx.JSON(serverutils.SuccessResponse[any]("Session reset", nil))
}

func (c *qaController) Feedback(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.QaFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Feedback(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback recorded", res))
}

func (c *qaController) History(ctx *fiber.Ctx) error {
	userId, err := userIdFromLocals(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.History(ctx.Context(), userId, sessionId)
	if err != nil {
		if err == service.ErrSessionNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("History fetched", res))
}

// updateToEvent flattens one merged session snapshot into the SSE frame
// shape the console consumes.
func updateToEvent(u qastream.Update) dto.QaStreamEventResponse {
	frame := dto.QaStreamEventResponse{
		Status:   string(u.Session.Status),
		AnswerId: u.Session.AnswerID,
		QaId:     u.Event.QaID,
		Text:     strings.Join(u.Session.Text, ""),
		Table:    u.Session.Table,
		Explain:  u.Session.Explain,
		Failure:  u.Event.Failure,
	}
	for _, cite := range u.Session.Citations {
		frame.Citations = append(frame.Citations, dto.QaCitationResponse{
			AssetId: cite.AssetID,
			Title:   cite.Title,
		})
	}
	if len(u.Session.Chart) > 0 {
		if raw, err := json.Marshal(u.Session.Chart); err == nil {
			frame.Chart = string(raw)
		}
	}
	return frame
}
