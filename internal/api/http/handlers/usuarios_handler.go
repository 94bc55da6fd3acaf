package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/eventpass/internal/api/dto"
	"github.com/spec-kit/eventpass/internal/service"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

// UsuariosHandler serves the caller's own account.
type UsuariosHandler struct {
	usuarios  *service.UsuarioService
	eventos   *service.EventoService
	ingressos *service.IngressoService
}

// NewUsuariosHandler constructs handler.
func NewUsuariosHandler(usuarios *service.UsuarioService, eventos *service.EventoService, ingressos *service.IngressoService) *UsuariosHandler {
	return &UsuariosHandler{usuarios: usuarios, eventos: eventos, ingressos: ingressos}
}

// Me GET /usuarios/me.
func (h *UsuariosHandler) Me(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	usuario, err := h.usuarios.Get(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": usuarioResponse(usuario)})
}

// UpdateMe PUT /usuarios/me.
func (h *UsuariosHandler) UpdateMe(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UsuarioUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	usuario, err := h.usuarios.Update(c.UserContext(), principal.ID(), service.UsuarioUpdateInput{
		Nome:  req.Nome,
		CPF:   req.CPF,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": usuarioResponse(usuario)})
}

// DeleteMe DELETE /usuarios/me.
func (h *UsuariosHandler) DeleteMe(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.usuarios.Delete(c.UserContext(), principal.ID()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MyEventos GET /usuarios/me/eventos.
func (h *UsuariosHandler) MyEventos(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	eventos, err := h.eventos.ListByGestor(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventoResponses(eventos)})
}

// MyIngressos GET /usuarios/me/ingressos.
func (h *UsuariosHandler) MyIngressos(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ingressos, err := h.ingressos.ListByUsuario(c.UserContext(), principal.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ingressoResponses(ingressos)})
}
