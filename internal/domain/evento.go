package domain

import "time"

// Evento is an event owned by a manager, with a fixed ticket capacity.
type Evento struct {
	ID             int64
	Nome           string
	Descricao      string
	Data           time.Time
	Hora           time.Duration
	Local          string
	TotalIngressos int
	Flyer          *string
	GestorID       int64
	CriadoEm       time.Time
	AtualizadoEm   time.Time

	// IngressosEmitidos is derived on reads from non-cancelled ingressos.
	IngressosEmitidos int
}

// IngressosDisponiveis returns the remaining capacity, never negative.
func (e *Evento) IngressosDisponiveis() int {
	remaining := e.TotalIngressos - e.IngressosEmitidos
	if remaining < 0 {
		return 0
	}
	return remaining
}
