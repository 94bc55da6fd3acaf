package domain

import (
	"math"
	"net/url"
	"strings"
	"time"
)

// MaxQuantidade is the largest capacity or ticket quantity the store can hold.
const MaxQuantidade = math.MaxInt32

// FieldErrors maps an input field to the reason it was rejected.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Details converts the errors for a DomainError payload.
func (f FieldErrors) Details() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

const minSenhaLength = 6

// ValidDocument accepts an 11-digit CPF or a 14-digit CNPJ after stripping punctuation.
func ValidDocument(doc string) bool {
	n := len(NormalizeDocument(doc))
	return n == 11 || n == 14
}

// ValidEmail performs a structural check: one @, non-empty local part, dotted domain.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	host := email[at+1:]
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-1 && !strings.ContainsAny(email, " \t")
}

// ValidateUsuarioFields checks profile attributes shared by registration and updates.
func ValidateUsuarioFields(nome, cpf, email string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(nome) == "" {
		errs["nome"] = "required"
	}
	if strings.TrimSpace(cpf) == "" {
		errs["cpf"] = "required"
	} else if !ValidDocument(cpf) {
		errs["cpf"] = "must have 11 (CPF) or 14 (CNPJ) digits"
	}
	if strings.TrimSpace(email) == "" {
		errs["email"] = "required"
	} else if !ValidEmail(email) {
		errs["email"] = "malformed"
	}
	return errs
}

// ValidateSenha checks a new password and its confirmation.
func ValidateSenha(senha, confirmar string) FieldErrors {
	errs := FieldErrors{}
	switch {
	case senha == "":
		errs["senha"] = "required"
	case len(senha) < minSenhaLength:
		errs["senha"] = "must have at least 6 characters"
	case senha != confirmar:
		errs["confirmar_senha"] = "does not match senha"
	}
	return errs
}

// ValidateEvento checks the mutable attributes of an evento.
func ValidateEvento(e *Evento) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(e.Nome) == "" {
		errs["nome"] = "required"
	}
	if strings.TrimSpace(e.Descricao) == "" {
		errs["descricao"] = "required"
	}
	if strings.TrimSpace(e.Local) == "" {
		errs["local"] = "required"
	}
	if e.Data.IsZero() {
		errs["data"] = "required"
	}
	if e.Hora < 0 || e.Hora >= 24*time.Hour {
		errs["hora"] = "out of range"
	}
	if e.TotalIngressos <= 0 {
		errs["total_ingressos"] = "must be positive"
	} else if e.TotalIngressos > MaxQuantidade {
		errs["total_ingressos"] = "too large"
	}
	if e.Flyer != nil && *e.Flyer != "" {
		u, err := url.Parse(*e.Flyer)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs["flyer"] = "must be an absolute http(s) URI"
		}
	}
	return errs
}

// ValidateQuantidade checks the size of a single purchase.
func ValidateQuantidade(q int) FieldErrors {
	errs := FieldErrors{}
	if q <= 0 {
		errs["quantidade"] = "must be positive"
	} else if q > MaxQuantidade {
		errs["quantidade"] = "too large"
	}
	return errs
}
