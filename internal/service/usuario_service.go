package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/auth"
	"github.com/spec-kit/eventpass/internal/cache"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/repository"
)

// UsuarioService manages accounts.
type UsuarioService struct {
	usuarios   repository.UsuarioRepository
	cache      cache.EventoCache
	publisher  publisher
	bcryptCost int
}

// UsuarioDependencies bundles collaborators for the usuario service.
type UsuarioDependencies struct {
	UsuarioRepo repository.UsuarioRepository
	EventoCache cache.EventoCache
	Dispatcher  events.Dispatcher
	BcryptCost  int
	Logger      *zap.Logger
}

// UsuarioCreateInput describes a registration.
type UsuarioCreateInput struct {
	Nome           string
	CPF            string
	Email          string
	Senha          string
	ConfirmarSenha string
	Tipo           int
}

// UsuarioUpdateInput carries the non-key attributes a usuario may edit.
type UsuarioUpdateInput struct {
	Nome  string
	CPF   string
	Email string
}

// NewUsuarioService constructs the service.
func NewUsuarioService(deps UsuarioDependencies) *UsuarioService {
	ec := deps.EventoCache
	if ec == nil {
		ec = cache.NewEventoCache(nil, 0, nil)
	}
	return &UsuarioService{
		usuarios:   deps.UsuarioRepo,
		cache:      ec,
		publisher:  newPublisher(deps.Dispatcher, deps.Logger),
		bcryptCost: deps.BcryptCost,
	}
}

// Create validates and stores a new usuario. The confirmation is checked, never stored.
func (s *UsuarioService) Create(ctx context.Context, input UsuarioCreateInput) (*domain.Usuario, error) {
	errs := domain.ValidateUsuarioFields(input.Nome, input.CPF, input.Email)
	for k, v := range domain.ValidateSenha(input.Senha, input.ConfirmarSenha) {
		errs[k] = v
	}
	if !errs.Empty() {
		return nil, validationFailed(errs)
	}

	hash, err := auth.HashPassword(input.Senha, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	usuario := &domain.Usuario{
		Nome:      strings.TrimSpace(input.Nome),
		CPF:       domain.NormalizeDocument(input.CPF),
		Email:     domain.NormalizeEmail(input.Email),
		SenhaHash: hash,
		Role:      domain.ParseRole(input.Tipo),
	}
	if err := s.usuarios.Create(ctx, usuario); err != nil {
		return nil, translate(err)
	}

	s.publisher.publish(ctx, events.Event{
		Type:    events.EventUsuarioRegistrado,
		ActorID: usuario.ID,
		Payload: events.UsuarioPayload{UsuarioID: usuario.ID, Email: usuario.Email, Role: usuario.Role},
	})
	return usuario, nil
}

// Get loads a usuario by id.
func (s *UsuarioService) Get(ctx context.Context, id int64) (*domain.Usuario, error) {
	usuario, err := s.usuarios.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return usuario, nil
}

// Update rewrites nome, cpf and email. Role and password are not editable here.
func (s *UsuarioService) Update(ctx context.Context, id int64, input UsuarioUpdateInput) (*domain.Usuario, error) {
	if errs := domain.ValidateUsuarioFields(input.Nome, input.CPF, input.Email); !errs.Empty() {
		return nil, validationFailed(errs)
	}
	usuario, err := s.usuarios.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	usuario.Nome = strings.TrimSpace(input.Nome)
	usuario.CPF = domain.NormalizeDocument(input.CPF)
	usuario.Email = domain.NormalizeEmail(input.Email)
	if err := s.usuarios.Update(ctx, usuario); err != nil {
		return nil, translate(err)
	}
	return usuario, nil
}

// Delete removes the usuario and the eventos it manages. It fails with a conflict
// while the usuario holds ingressos or any of its eventos has sold some.
func (s *UsuarioService) Delete(ctx context.Context, id int64) error {
	if err := s.usuarios.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.cache.Invalidate(ctx)
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventUsuarioRemovido,
		ActorID: id,
		Payload: events.UsuarioPayload{UsuarioID: id},
	})
	return nil
}
