package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/auth"
	"github.com/spec-kit/eventpass/internal/config"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/repository"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	usuarios   repository.UsuarioRepository
	registrar  *UsuarioService
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	publisher  publisher
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UsuarioRepo    repository.UsuarioRepository
	UsuarioService *UsuarioService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// Session is an issued access token.
type Session struct {
	Usuario   *domain.Usuario
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		usuarios:   deps.UsuarioRepo,
		registrar:  deps.UsuarioService,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		publisher:  newPublisher(deps.Dispatcher, deps.Logger),
		now:        time.Now,
	}
}

// Register creates a usuario and signs it in.
func (s *AuthService) Register(ctx context.Context, input UsuarioCreateInput) (*Session, error) {
	usuario, err := s.registrar.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issue(usuario)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*Session, error) {
	usuario, err := s.usuarios.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUsuarioNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, translate(err)
	}
	if err := auth.ComparePassword(usuario.SenhaHash, senha); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(usuario)
}

// RequestPasswordReset stores a one-time token on the usuario row and hands it
// to the notification channel. Unknown emails succeed without doing anything.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	usuario, err := s.usuarios.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUsuarioNotFound) {
			return nil
		}
		return translate(err)
	}
	token := uuid.NewString()
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.usuarios.SetResetToken(ctx, usuario.ID, token, expiresAt); err != nil {
		return translate(err)
	}

	s.publisher.publish(ctx, events.Event{
		Type:    events.EventSenhaRedefinicaoPedida,
		ActorID: usuario.ID,
		Payload: events.SenhaRedefinicaoPayload{
			UsuarioID: usuario.ID,
			Email:     usuario.Email,
			Token:     token,
			ExpiraEm:  expiresAt,
		},
	})
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets a new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, senha, confirmar string) error {
	if errs := domain.ValidateSenha(senha, confirmar); !errs.Empty() {
		return validationFailed(errs)
	}
	usuario, err := s.usuarios.GetByResetToken(ctx, token)
	if err != nil {
		return translate(err)
	}
	if usuario.TokenExpiraEm == nil || s.now().After(*usuario.TokenExpiraEm) {
		return apperrors.NewValidationError("reset token expired", map[string]any{"token": "expired"})
	}

	hash, err := auth.HashPassword(senha, s.bcryptCost)
	if err != nil {
		return err
	}
	usuario.SenhaHash = hash
	usuario.TokenRedefinicaoSenha = nil
	usuario.TokenExpiraEm = nil
	return translate(s.usuarios.Update(ctx, usuario))
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(ctx context.Context, usuarioID int64, atual, nova, confirmar string) error {
	if errs := domain.ValidateSenha(nova, confirmar); !errs.Empty() {
		return validationFailed(errs)
	}
	usuario, err := s.usuarios.GetByID(ctx, usuarioID)
	if err != nil {
		return translate(err)
	}
	if err := auth.ComparePassword(usuario.SenhaHash, atual); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(nova, s.bcryptCost)
	if err != nil {
		return err
	}
	usuario.SenhaHash = hash
	return translate(s.usuarios.Update(ctx, usuario))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(usuario *domain.Usuario) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(usuario.ID, usuario.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Usuario: usuario, Token: token, ExpiresAt: exp}, nil
}
