package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/service"
)

// IngressosHandler manages ticket endpoints.
type IngressosHandler struct {
	service *service.IngressoService
}

// NewIngressosHandler constructs handler.
func NewIngressosHandler(ingressoService *service.IngressoService) *IngressosHandler {
	return &IngressosHandler{service: ingressoService}
}

// Get GET /ingressos/:id.
func (h *IngressosHandler) Get(c *fiber.Ctx) error {
	return h.respond(c, h.service.Get)
}

// CheckIn POST /ingressos/:id/checkin.
func (h *IngressosHandler) CheckIn(c *fiber.Ctx) error {
	return h.respond(c, h.service.CheckIn)
}

// Cancel POST /ingressos/:id/cancel.
func (h *IngressosHandler) Cancel(c *fiber.Ctx) error {
	return h.respond(c, h.service.Cancel)
}

// Delete DELETE /ingressos/:id.
func (h *IngressosHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.ID(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Historico GET /ingressos/:id/historico.
func (h *IngressosHandler) Historico(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.service.Historico(c.UserContext(), principal.ID(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historicoResponses(entries)})
}

type ingressoAction func(ctx context.Context, callerID, id int64) (*domain.Ingresso, error)

func (h *IngressosHandler) respond(c *fiber.Ctx, action ingressoAction) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ingresso, err := action(c.UserContext(), principal.ID(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ingressoResponse(ingresso)})
}
