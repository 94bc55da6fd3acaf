package events

import (
	"time"

	"github.com/spec-kit/eventpass/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUsuarioRegistrado      EventType = "usuario_registrado"
	EventUsuarioRemovido        EventType = "usuario_removido"
	EventSenhaRedefinicaoPedida EventType = "senha_redefinicao_solicitada"
	EventEventoCriado           EventType = "evento_criado"
	EventEventoAtualizado       EventType = "evento_atualizado"
	EventEventoRemovido         EventType = "evento_removido"
	EventIngressoEmitido        EventType = "ingresso_emitido"
	EventIngressoStatusAlterado EventType = "ingresso_status_alterado"
	EventIngressoRemovido       EventType = "ingresso_removido"
)

// AllEventTypes lists every type, in a stable order.
var AllEventTypes = []EventType{
	EventUsuarioRegistrado,
	EventUsuarioRemovido,
	EventSenhaRedefinicaoPedida,
	EventEventoCriado,
	EventEventoAtualizado,
	EventEventoRemovido,
	EventIngressoEmitido,
	EventIngressoStatusAlterado,
	EventIngressoRemovido,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UsuarioPayload identifies an account.
type UsuarioPayload struct {
	UsuarioID int64       `json:"usuario_id"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
}

// SenhaRedefinicaoPayload carries a password reset token to the usuario's inbox.
// It is the only channel the token travels on.
type SenhaRedefinicaoPayload struct {
	UsuarioID int64     `json:"usuario_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiraEm  time.Time `json:"expira_em"`
}

// EventoPayload identifies an evento.
type EventoPayload struct {
	EventoID       int64  `json:"evento_id"`
	GestorID       int64  `json:"gestor_id"`
	Nome           string `json:"nome,omitempty"`
	TotalIngressos int    `json:"total_ingressos,omitempty"`
}

// IngressoPayload describes a ticket change.
type IngressoPayload struct {
	IngressoID     int64                  `json:"ingresso_id"`
	EventoID       int64                  `json:"evento_id"`
	UsuarioID      int64                  `json:"usuario_id"`
	Quantidade     int                    `json:"quantidade"`
	StatusAnterior *domain.IngressoStatus `json:"status_anterior,omitempty"`
	Status         domain.IngressoStatus  `json:"status"`
}
