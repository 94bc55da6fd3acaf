package service

import (
	"errors"

	"github.com/spec-kit/eventpass/internal/domain"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

// translate converts repository sentinels into DomainErrors. Anything it does not
// recognise is returned untouched and rendered as INTERNAL_ERROR by the middleware.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var capacity *domain.CapacityError
	switch {
	case errors.As(err, &capacity):
		return apperrors.NewCapacityExceeded(capacity.Requested, capacity.Available)
	case errors.Is(err, domain.ErrUsuarioNotFound):
		return apperrors.NewNotFound("usuario", nil)
	case errors.Is(err, domain.ErrEventoNotFound):
		return apperrors.NewNotFound("evento", nil)
	case errors.Is(err, domain.ErrIngressoNotFound):
		return apperrors.NewNotFound("ingresso", nil)
	case errors.Is(err, domain.ErrResetTokenNotFound):
		return apperrors.NewNotFound("reset token", nil)
	case errors.Is(err, domain.ErrEmailTaken):
		return apperrors.NewConflict("email already registered", map[string]any{"email": "taken"})
	case errors.Is(err, domain.ErrEventoHasIngressos):
		return apperrors.NewConflict("evento has ingressos", nil)
	case errors.Is(err, domain.ErrUsuarioHasIngressos):
		return apperrors.NewConflict("usuario holds ingressos", nil)
	case errors.Is(err, domain.ErrGestorHasIngressos):
		return apperrors.NewConflict("usuario manages eventos with ingressos", nil)
	case errors.Is(err, domain.ErrReferenceRestricted):
		return apperrors.NewConflict("delete restricted by existing ingressos", nil)
	case errors.Is(err, domain.ErrCapacityBelowIssued):
		return apperrors.NewConflict("total_ingressos below issued quantity", map[string]any{"reason": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return apperrors.NewConflict("invalid ingresso status transition", map[string]any{"reason": err.Error()})
	}
	return err
}

func validationFailed(errs domain.FieldErrors) error {
	return apperrors.NewValidationError("invalid fields", errs.Details())
}
