package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUsuarioNotFound     = errors.New("usuario not found")
	ErrEventoNotFound      = errors.New("evento not found")
	ErrIngressoNotFound    = errors.New("ingresso not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrEventoHasIngressos  = errors.New("evento has ingressos")
	ErrUsuarioHasIngressos = errors.New("usuario holds ingressos")
	ErrGestorHasIngressos  = errors.New("usuario manages eventos with ingressos")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrCapacityBelowIssued = errors.New("capacity below issued quantity")
	ErrInvalidTransition   = errors.New("invalid ingresso status transition")
	ErrReferenceRestricted = errors.New("delete restricted by reference")
	ErrResetTokenNotFound  = errors.New("reset token not found")
)

// CapacityError reports how much of an evento was left when a purchase did not fit.
type CapacityError struct {
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: requested %d, available %d", e.Requested, e.Available)
}

// Is lets errors.Is match CapacityError against ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
