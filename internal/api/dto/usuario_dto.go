package dto

import "time"

// UsuarioRegisterRequest payload for new accounts.
type UsuarioRegisterRequest struct {
	Nome           string `json:"nome"`
	CPF            string `json:"cpf"`
	Email          string `json:"email"`
	Senha          string `json:"senha"`
	ConfirmarSenha string `json:"confirmar_senha"`
	Tipo           int    `json:"tipo"`
}

// UsuarioUpdateRequest payload for profile edits.
type UsuarioUpdateRequest struct {
	Nome  string `json:"nome"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token          string `json:"token"`
	NovaSenha      string `json:"nova_senha"`
	ConfirmarSenha string `json:"confirmar_senha"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	SenhaAtual     string `json:"senha_atual"`
	NovaSenha      string `json:"nova_senha"`
	ConfirmarSenha string `json:"confirmar_senha"`
}

// UsuarioResponse is the public view of an account. Tipo 1 marks a gestor.
type UsuarioResponse struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	CPF          string    `json:"cpf"`
	Email        string    `json:"email"`
	Tipo         int       `json:"tipo"`
	Role         string    `json:"role"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetAccepted acknowledges a reset request. It is identical for known and unknown emails.
type PasswordResetAccepted struct {
	Message string `json:"message"`
}
