package dto

import "time"

// Wire layouts for the date and time-of-day columns.
const (
	DateLayout = "2006-01-02"
	HoraLayout = "15:04"
)

// EventoRequest payload for create and update.
type EventoRequest struct {
	Nome           string  `json:"nome"`
	Descricao      string  `json:"descricao"`
	Data           string  `json:"data"`
	Hora           string  `json:"hora"`
	Local          string  `json:"local"`
	TotalIngressos int     `json:"total_ingressos"`
	Flyer          *string `json:"flyer"`
}

// EventoResponse is the public view of an evento.
type EventoResponse struct {
	ID                   int64     `json:"id"`
	Nome                 string    `json:"nome"`
	Descricao            string    `json:"descricao"`
	Data                 string    `json:"data"`
	Hora                 string    `json:"hora"`
	Local                string    `json:"local"`
	TotalIngressos       int       `json:"total_ingressos"`
	IngressosEmitidos    int       `json:"ingressos_emitidos"`
	IngressosDisponiveis int       `json:"ingressos_disponiveis"`
	Flyer                *string   `json:"flyer"`
	GestorID             int64     `json:"gestor_id"`
	CriadoEm             time.Time `json:"criado_em"`
	AtualizadoEm         time.Time `json:"atualizado_em"`
}
