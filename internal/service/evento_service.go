package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/cache"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/repository"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

// EventoService coordinates evento workflows.
type EventoService struct {
	eventos    repository.EventoRepository
	usuarios   repository.UsuarioRepository
	cache      cache.EventoCache
	publisher  publisher
}

// EventoDependencies bundles collaborators for the evento service.
type EventoDependencies struct {
	EventoRepo  repository.EventoRepository
	UsuarioRepo repository.UsuarioRepository
	EventoCache cache.EventoCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// EventoInput carries the editable attributes of an evento.
type EventoInput struct {
	Nome           string
	Descricao      string
	Data           time.Time
	Hora           time.Duration
	Local          string
	TotalIngressos int
	Flyer          *string
}

// NewEventoService constructs the service.
func NewEventoService(deps EventoDependencies) *EventoService {
	ec := deps.EventoCache
	if ec == nil {
		ec = cache.NewEventoCache(nil, 0, nil)
	}
	return &EventoService{
		eventos:    deps.EventoRepo,
		usuarios:   deps.UsuarioRepo,
		cache:      ec,
		publisher:  newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// Create stores a new evento owned by gestorID.
func (s *EventoService) Create(ctx context.Context, gestorID int64, input EventoInput) (*domain.Evento, error) {
	gestor, err := s.usuarios.GetByID(ctx, gestorID)
	if err != nil {
		return nil, translate(err)
	}
	if !gestor.Role.IsManager() {
		return nil, apperrors.NewForbidden("only a gestor can create eventos")
	}

	evento := &domain.Evento{GestorID: gestor.ID}
	apply(evento, input)
	if errs := domain.ValidateEvento(evento); !errs.Empty() {
		return nil, validationFailed(errs)
	}
	if err := s.eventos.Create(ctx, evento); err != nil {
		return nil, translate(err)
	}

	s.cache.Invalidate(ctx)
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventEventoCriado,
		ActorID: gestor.ID,
		Payload: eventoPayload(evento),
	})
	return evento, nil
}

// Get loads one evento with its issued quantity.
func (s *EventoService) Get(ctx context.Context, id int64) (*domain.Evento, error) {
	evento, err := s.eventos.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return evento, nil
}

// List returns every evento in calendar order, served from cache when warm.
func (s *EventoService) List(ctx context.Context) ([]domain.Evento, error) {
	cached, gen, ok := s.cache.GetAll(ctx)
	if ok {
		return cached, nil
	}
	eventos, err := s.eventos.List(ctx)
	if err != nil {
		return nil, translate(err)
	}
	s.cache.SetAll(ctx, gen, eventos)
	return eventos, nil
}

// ListByGestor returns the eventos owned by gestorID in creation order.
func (s *EventoService) ListByGestor(ctx context.Context, gestorID int64) ([]domain.Evento, error) {
	if _, err := s.usuarios.GetByID(ctx, gestorID); err != nil {
		return nil, translate(err)
	}
	eventos, err := s.eventos.ListByGestor(ctx, gestorID)
	if err != nil {
		return nil, translate(err)
	}
	return eventos, nil
}

// Update edits an evento owned by gestorID.
func (s *EventoService) Update(ctx context.Context, gestorID, id int64, input EventoInput) (*domain.Evento, error) {
	evento, err := s.owned(ctx, gestorID, id)
	if err != nil {
		return nil, err
	}
	apply(evento, input)
	if errs := domain.ValidateEvento(evento); !errs.Empty() {
		return nil, validationFailed(errs)
	}
	if err := s.eventos.Update(ctx, evento); err != nil {
		return nil, translate(err)
	}

	s.cache.Invalidate(ctx)
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventEventoAtualizado,
		ActorID: gestorID,
		Payload: eventoPayload(evento),
	})
	return evento, nil
}

// Delete removes an evento owned by gestorID. It fails with a conflict while ingressos reference it.
func (s *EventoService) Delete(ctx context.Context, gestorID, id int64) error {
	evento, err := s.owned(ctx, gestorID, id)
	if err != nil {
		return err
	}
	if err := s.eventos.Delete(ctx, id); err != nil {
		return translate(err)
	}

	s.cache.Invalidate(ctx)
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventEventoRemovido,
		ActorID: gestorID,
		Payload: eventoPayload(evento),
	})
	return nil
}

func (s *EventoService) owned(ctx context.Context, gestorID, id int64) (*domain.Evento, error) {
	evento, err := s.eventos.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if evento.GestorID != gestorID {
		return nil, apperrors.NewForbidden("evento belongs to another gestor")
	}
	return evento, nil
}

func apply(evento *domain.Evento, input EventoInput) {
	evento.Nome = strings.TrimSpace(input.Nome)
	evento.Descricao = strings.TrimSpace(input.Descricao)
	evento.Data = input.Data
	evento.Hora = input.Hora
	evento.Local = strings.TrimSpace(input.Local)
	evento.TotalIngressos = input.TotalIngressos
	evento.Flyer = nil
	if input.Flyer != nil && strings.TrimSpace(*input.Flyer) != "" {
		flyer := strings.TrimSpace(*input.Flyer)
		evento.Flyer = &flyer
	}
}

func eventoPayload(evento *domain.Evento) events.EventoPayload {
	return events.EventoPayload{
		EventoID:       evento.ID,
		GestorID:       evento.GestorID,
		Nome:           evento.Nome,
		TotalIngressos: evento.TotalIngressos,
	}
}
