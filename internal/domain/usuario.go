package domain

import (
	"strings"
	"time"
)

// Role is the usuario discriminator persisted in the tipo column.
type Role string

const (
	RoleManager  Role = "GESTOR"
	RoleAttendee Role = "PARTICIPANTE"
)

const (
	tipoManager  = 1
	tipoAttendee = 2
)

// ParseRole maps a persisted tipo to its Role. Only 1 denotes a manager.
func ParseRole(tipo int) Role {
	if tipo == tipoManager {
		return RoleManager
	}
	return RoleAttendee
}

// Tipo returns the integer written to the store and exposed to the mobile client.
func (r Role) Tipo() int {
	if r == RoleManager {
		return tipoManager
	}
	return tipoAttendee
}

// IsManager reports whether the role may own eventos.
func (r Role) IsManager() bool {
	return r == RoleManager
}

// Usuario is a registered account, either an event manager or an attendee.
type Usuario struct {
	ID                    int64
	Nome                  string
	CPF                   string
	Email                 string
	SenhaHash             string
	Role                  Role
	TokenRedefinicaoSenha *string
	TokenExpiraEm         *time.Time
	CriadoEm              time.Time
	AtualizadoEm          time.Time
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeDocument strips CPF/CNPJ punctuation.
func NormalizeDocument(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
