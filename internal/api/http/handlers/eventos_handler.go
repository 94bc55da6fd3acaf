package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/eventpass/internal/api/dto"
	"github.com/spec-kit/eventpass/internal/service"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

// EventosHandler manages evento endpoints and purchases.
type EventosHandler struct {
	eventos   *service.EventoService
	ingressos *service.IngressoService
}

// NewEventosHandler constructs handler.
func NewEventosHandler(eventos *service.EventoService, ingressos *service.IngressoService) *EventosHandler {
	return &EventosHandler{eventos: eventos, ingressos: ingressos}
}

// List GET /eventos.
func (h *EventosHandler) List(c *fiber.Ctx) error {
	eventos, err := h.eventos.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventoResponses(eventos)})
}

// Get GET /eventos/:id.
func (h *EventosHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	evento, err := h.eventos.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventoResponse(evento)})
}

// Create POST /eventos.
func (h *EventosHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	input, err := h.bindEvento(c)
	if err != nil {
		return err
	}
	evento, err := h.eventos.Create(c.UserContext(), principal.ID(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": eventoResponse(evento)})
}

// Update PUT /eventos/:id.
func (h *EventosHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := h.bindEvento(c)
	if err != nil {
		return err
	}
	evento, err := h.eventos.Update(c.UserContext(), principal.ID(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventoResponse(evento)})
}

// Delete DELETE /eventos/:id.
func (h *EventosHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventos.Delete(c.UserContext(), principal.ID(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Purchase POST /eventos/:id/ingressos buys tickets for the caller.
func (h *EventosHandler) Purchase(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.IngressoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ingresso, err := h.ingressos.Issue(c.UserContext(), principal.ID(), id, req.Quantidade)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ingressoResponse(ingresso)})
}

// Ingressos GET /eventos/:id/ingressos lists sales for the evento's gestor.
func (h *EventosHandler) Ingressos(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ingressos, err := h.ingressos.ListByEvento(c.UserContext(), principal.ID(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ingressoResponses(ingressos)})
}

func (h *EventosHandler) bindEvento(c *fiber.Ctx) (service.EventoInput, error) {
	var req dto.EventoRequest
	if err := c.BodyParser(&req); err != nil {
		return service.EventoInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return parseEventoRequest(req)
}
