package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/eventpass/internal/api/dto"
	"github.com/spec-kit/eventpass/internal/auth"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/service"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func parseEventoRequest(req dto.EventoRequest) (service.EventoInput, error) {
	input := service.EventoInput{
		Nome:           req.Nome,
		Descricao:      req.Descricao,
		Local:          req.Local,
		TotalIngressos: req.TotalIngressos,
		Flyer:          req.Flyer,
	}
	details := map[string]any{}

	if req.Data != "" {
		data, err := time.Parse(dto.DateLayout, req.Data)
		if err != nil {
			details["data"] = "expected YYYY-MM-DD"
		}
		input.Data = data
	}
	if req.Hora != "" {
		hora, err := parseHora(req.Hora)
		if err != nil {
			details["hora"] = "expected HH:MM"
		}
		input.Hora = hora
	}
	if len(details) > 0 {
		return input, apperrors.NewValidationError("invalid fields", details)
	}
	return input, nil
}

func parseHora(raw string) (time.Duration, error) {
	t, err := time.Parse(dto.HoraLayout, raw)
	if err != nil {
		if t, err = time.Parse("15:04:05", raw); err != nil {
			return 0, err
		}
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

func formatHora(d time.Duration) string {
	return time.Time{}.Add(d).Format(dto.HoraLayout)
}

func usuarioResponse(u *domain.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:           u.ID,
		Nome:         u.Nome,
		CPF:          u.CPF,
		Email:        u.Email,
		Tipo:         u.Role.Tipo(),
		Role:         string(u.Role),
		CriadoEm:     u.CriadoEm,
		AtualizadoEm: u.AtualizadoEm,
	}
}

func eventoResponse(e *domain.Evento) dto.EventoResponse {
	return dto.EventoResponse{
		ID:                   e.ID,
		Nome:                 e.Nome,
		Descricao:            e.Descricao,
		Data:                 e.Data.Format(dto.DateLayout),
		Hora:                 formatHora(e.Hora),
		Local:                e.Local,
		TotalIngressos:       e.TotalIngressos,
		IngressosEmitidos:    e.IngressosEmitidos,
		IngressosDisponiveis: e.IngressosDisponiveis(),
		Flyer:                e.Flyer,
		GestorID:             e.GestorID,
		CriadoEm:             e.CriadoEm,
		AtualizadoEm:         e.AtualizadoEm,
	}
}

func eventoResponses(eventos []domain.Evento) []dto.EventoResponse {
	items := make([]dto.EventoResponse, 0, len(eventos))
	for i := range eventos {
		items = append(items, eventoResponse(&eventos[i]))
	}
	return items
}

func ingressoResponse(i *domain.Ingresso) dto.IngressoResponse {
	return dto.IngressoResponse{
		ID:           i.ID,
		EventoID:     i.EventoID,
		UsuarioID:    i.UsuarioID,
		Quantidade:   i.Quantidade,
		Status:       int(i.Status),
		StatusNome:   i.Status.String(),
		CriadoEm:     i.CriadoEm,
		AtualizadoEm: i.AtualizadoEm,
	}
}

func ingressoResponses(ingressos []domain.Ingresso) []dto.IngressoResponse {
	items := make([]dto.IngressoResponse, 0, len(ingressos))
	for i := range ingressos {
		items = append(items, ingressoResponse(&ingressos[i]))
	}
	return items
}

func historicoResponses(entries []domain.IngressoHistorico) []dto.IngressoHistoricoResponse {
	resp := make([]dto.IngressoHistoricoResponse, 0, len(entries))
	for _, entry := range entries {
		item := dto.IngressoHistoricoResponse{
			ID:         entry.ID,
			UsuarioID:  entry.UsuarioID,
			StatusNovo: int(entry.StatusNovo),
			CriadoEm:   entry.CriadoEm,
		}
		if entry.StatusAnterior != nil {
			prev := int(*entry.StatusAnterior)
			item.StatusAnterior = &prev
		}
		resp = append(resp, item)
	}
	return resp
}
