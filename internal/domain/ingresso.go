package domain

import "time"

// IngressoStatus enumerates ticket lifecycle states.
type IngressoStatus int

const (
	IngressoStatusAtivo     IngressoStatus = 1
	IngressoStatusUtilizado IngressoStatus = 2
	IngressoStatusCancelado IngressoStatus = 3
)

func (s IngressoStatus) String() string {
	switch s {
	case IngressoStatusAtivo:
		return "ATIVO"
	case IngressoStatusUtilizado:
		return "UTILIZADO"
	case IngressoStatusCancelado:
		return "CANCELADO"
	default:
		return "DESCONHECIDO"
	}
}

// CanTransitionTo reports whether next is reachable from s.
// Only ATIVO tickets move, either to UTILIZADO or CANCELADO.
func (s IngressoStatus) CanTransitionTo(next IngressoStatus) bool {
	if s != IngressoStatusAtivo {
		return false
	}
	return next == IngressoStatusUtilizado || next == IngressoStatusCancelado
}

// Ingresso is a purchase of one or more tickets for an Evento by a Usuario.
type Ingresso struct {
	ID           int64
	EventoID     int64
	UsuarioID    int64
	Quantidade   int
	Status       IngressoStatus
	CriadoEm     time.Time
	AtualizadoEm time.Time
}

// IngressoHistorico is an immutable audit entry for an ingresso status change.
type IngressoHistorico struct {
	ID             int64
	IngressoID     int64
	UsuarioID      int64
	StatusAnterior *IngressoStatus
	StatusNovo     IngressoStatus
	CriadoEm       time.Time
}
