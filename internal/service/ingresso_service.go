package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/cache"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/repository"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

// IngressoService coordinates ticket purchases and their lifecycle.
type IngressoService struct {
	ingressos  repository.IngressoRepository
	historico  repository.IngressoHistoricoRepository
	eventos    repository.EventoRepository
	usuarios   repository.UsuarioRepository
	cache      cache.EventoCache
	publisher  publisher
}

// IngressoDependencies bundles collaborators for the ingresso service.
type IngressoDependencies struct {
	IngressoRepo  repository.IngressoRepository
	HistoricoRepo repository.IngressoHistoricoRepository
	EventoRepo    repository.EventoRepository
	UsuarioRepo   repository.UsuarioRepository
	EventoCache   cache.EventoCache
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewIngressoService constructs the service.
func NewIngressoService(deps IngressoDependencies) *IngressoService {
	ec := deps.EventoCache
	if ec == nil {
		ec = cache.NewEventoCache(nil, 0, nil)
	}
	return &IngressoService{
		ingressos:  deps.IngressoRepo,
		historico:  deps.HistoricoRepo,
		eventos:    deps.EventoRepo,
		usuarios:   deps.UsuarioRepo,
		cache:      ec,
		publisher:  newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// Issue buys quantidade seats of an evento for usuarioID.
func (s *IngressoService) Issue(ctx context.Context, usuarioID, eventoID int64, quantidade int) (*domain.Ingresso, error) {
	if errs := domain.ValidateQuantidade(quantidade); !errs.Empty() {
		return nil, validationFailed(errs)
	}

	ingresso := &domain.Ingresso{
		EventoID:   eventoID,
		UsuarioID:  usuarioID,
		Quantidade: quantidade,
	}
	if err := s.ingressos.Issue(ctx, ingresso, usuarioID); err != nil {
		return nil, translate(err)
	}

	s.cache.Invalidate(ctx)
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventIngressoEmitido,
		ActorID: usuarioID,
		Payload: ingressoPayload(ingresso, nil),
	})
	return ingresso, nil
}

// Get returns an ingresso visible to its holder or the evento's gestor.
func (s *IngressoService) Get(ctx context.Context, callerID, id int64) (*domain.Ingresso, error) {
	ingresso, _, err := s.authorize(ctx, callerID, id, true)
	return ingresso, err
}

// ListByUsuario returns the ingressos held by usuarioID in purchase order.
func (s *IngressoService) ListByUsuario(ctx context.Context, usuarioID int64) ([]domain.Ingresso, error) {
	if _, err := s.usuarios.GetByID(ctx, usuarioID); err != nil {
		return nil, translate(err)
	}
	ingressos, err := s.ingressos.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, translate(err)
	}
	return ingressos, nil
}

// ListByEvento returns the ingressos sold for an evento; only its gestor may ask.
func (s *IngressoService) ListByEvento(ctx context.Context, gestorID, eventoID int64) ([]domain.Ingresso, error) {
	evento, err := s.eventos.GetByID(ctx, eventoID)
	if err != nil {
		return nil, translate(err)
	}
	if evento.GestorID != gestorID {
		return nil, apperrors.NewForbidden("evento belongs to another gestor")
	}
	ingressos, err := s.ingressos.ListByEvento(ctx, eventoID)
	if err != nil {
		return nil, translate(err)
	}
	return ingressos, nil
}

// CheckIn marks an ATIVO ingresso as used. Only the evento's gestor may do it.
func (s *IngressoService) CheckIn(ctx context.Context, gestorID, id int64) (*domain.Ingresso, error) {
	if _, _, err := s.authorize(ctx, gestorID, id, false); err != nil {
		return nil, err
	}
	return s.transition(ctx, gestorID, id, domain.IngressoStatusUtilizado)
}

// Cancel releases an ATIVO ingresso back to the evento's capacity.
func (s *IngressoService) Cancel(ctx context.Context, callerID, id int64) (*domain.Ingresso, error) {
	if _, _, err := s.authorize(ctx, callerID, id, true); err != nil {
		return nil, err
	}
	updated, err := s.transition(ctx, callerID, id, domain.IngressoStatusCancelado)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return updated, nil
}

// Delete removes an ingresso and its history; allowed to the holder or the evento's gestor.
func (s *IngressoService) Delete(ctx context.Context, callerID, id int64) error {
	ingresso, _, err := s.authorize(ctx, callerID, id, true)
	if err != nil {
		return err
	}
	if err := s.ingressos.Delete(ctx, id); err != nil {
		return translate(err)
	}

	s.cache.Invalidate(ctx)
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventIngressoRemovido,
		ActorID: callerID,
		Payload: ingressoPayload(ingresso, nil),
	})
	return nil
}

// Historico lists the status changes of an ingresso, oldest first.
func (s *IngressoService) Historico(ctx context.Context, callerID, id int64) ([]domain.IngressoHistorico, error) {
	if _, _, err := s.authorize(ctx, callerID, id, true); err != nil {
		return nil, err
	}
	entries, err := s.historico.ListByIngresso(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (s *IngressoService) transition(ctx context.Context, actorID, id int64, next domain.IngressoStatus) (*domain.Ingresso, error) {
	before, err := s.ingressos.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	updated, err := s.ingressos.UpdateStatus(ctx, id, next, actorID)
	if err != nil {
		return nil, translate(err)
	}
	previous := before.Status
	s.publisher.publish(ctx, events.Event{
		Type:    events.EventIngressoStatusAlterado,
		ActorID: actorID,
		Payload: ingressoPayload(updated, &previous),
	})
	return updated, nil
}

// authorize loads an ingresso and its evento and checks the caller is the evento's
// gestor or, when holderAllowed, the ingresso's holder.
func (s *IngressoService) authorize(ctx context.Context, callerID, id int64, holderAllowed bool) (*domain.Ingresso, *domain.Evento, error) {
	ingresso, err := s.ingressos.GetByID(ctx, id)
	if err != nil {
		return nil, nil, translate(err)
	}
	evento, err := s.eventos.GetByID(ctx, ingresso.EventoID)
	if err != nil {
		return nil, nil, translate(err)
	}
	if evento.GestorID == callerID || (holderAllowed && ingresso.UsuarioID == callerID) {
		return ingresso, evento, nil
	}
	return nil, nil, apperrors.NewForbidden("ingresso not accessible")
}

func ingressoPayload(ingresso *domain.Ingresso, previous *domain.IngressoStatus) events.IngressoPayload {
	return events.IngressoPayload{
		IngressoID:     ingresso.ID,
		EventoID:       ingresso.EventoID,
		UsuarioID:      ingresso.UsuarioID,
		Quantidade:     ingresso.Quantidade,
		StatusAnterior: previous,
		Status:         ingresso.Status,
	}
}
