package dto

import "time"

// IngressoRequest payload for a purchase.
type IngressoRequest struct {
	Quantidade int `json:"quantidade"`
}

// IngressoResponse is the public view of a ticket.
type IngressoResponse struct {
	ID           int64     `json:"id"`
	EventoID     int64     `json:"evento_id"`
	UsuarioID    int64     `json:"usuario_id"`
	Quantidade   int       `json:"quantidade"`
	Status       int       `json:"status"`
	StatusNome   string    `json:"status_nome"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// IngressoHistoricoResponse is one status change.
type IngressoHistoricoResponse struct {
	ID             int64     `json:"id"`
	UsuarioID      int64     `json:"usuario_id"`
	StatusAnterior *int      `json:"status_anterior"`
	StatusNovo     int       `json:"status_novo"`
	CriadoEm       time.Time `json:"criado_em"`
}
