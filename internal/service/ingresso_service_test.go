package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

type ingressoFixture struct {
	ingressos *ingressoRepoMock
	historico *historicoRepoMock
	eventos   *eventoRepoMock
	usuarios  *usuarioRepoMock
	cache     *cacheMock
	rec       *recorder
	svc       *IngressoService
}

// Evento 10 belongs to Ana (1); ingresso 50 is held by Bob (2); Carla (3) is unrelated.
func newIngressoFixture() *ingressoFixture {
	f := &ingressoFixture{
		ingressos: &ingressoRepoMock{},
		historico: &historicoRepoMock{},
		eventos:   &eventoRepoMock{},
		usuarios:  &usuarioRepoMock{},
		cache:     &cacheMock{},
		rec:       newRecorder(),
	}
	f.svc = NewIngressoService(IngressoDependencies{
		IngressoRepo:  f.ingressos,
		HistoricoRepo: f.historico,
		EventoRepo:    f.eventos,
		UsuarioRepo:   f.usuarios,
		EventoCache:   f.cache,
		Dispatcher:    f.rec,
	})
	f.eventos.On("GetByID", mock.Anything, int64(10)).Return(&domain.Evento{ID: 10, GestorID: 1, TotalIngressos: 5}, nil)
	f.ingressos.On("GetByID", mock.Anything, int64(50)).Return(&domain.Ingresso{
		ID: 50, EventoID: 10, UsuarioID: 2, Quantidade: 2, Status: domain.IngressoStatusAtivo,
	}, nil)
	f.ingressos.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrIngressoNotFound)
	f.cache.On("Invalidate", mock.Anything).Return()
	return f
}

func TestIngressoIssue(t *testing.T) {
	f := newIngressoFixture()
	f.ingressos.On("Issue", mock.Anything, mock.AnythingOfType("*domain.Ingresso"), int64(2)).
		Run(func(args mock.Arguments) {
			i := args.Get(1).(*domain.Ingresso)
			i.ID = 51
			i.Status = domain.IngressoStatusAtivo
		}).
		Return(nil).Once()

	ingresso, err := f.svc.Issue(context.Background(), 2, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(51), ingresso.ID)
	assert.Equal(t, 2, ingresso.Quantidade)
	assert.Equal(t, domain.IngressoStatusAtivo, ingresso.Status)

	last := f.rec.last()
	assert.Equal(t, events.EventIngressoEmitido, last.Type)
	assert.Equal(t, int64(2), last.ActorID)
	f.cache.AssertCalled(t, "Invalidate", mock.Anything)
}

func TestIngressoIssueRejections(t *testing.T) {
	f := newIngressoFixture()

	for _, q := range []int{0, -3, math.MaxInt32 + 1, math.MaxInt64} {
		_, err := f.svc.Issue(context.Background(), 2, 10, q)
		assert.Equal(t, "VALIDATION_FAILED", codeOf(err))
	}
	f.ingressos.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)

	f.ingressos.On("Issue", mock.Anything, mock.Anything, int64(2)).
		Return(&domain.CapacityError{Requested: 4, Available: 3}).Once()
	_, err := f.svc.Issue(context.Background(), 2, 10, 4)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, 3, de.Details["available"])
	assert.Equal(t, 4, de.Details["requested"])

	f.ingressos.On("Issue", mock.Anything, mock.Anything, int64(2)).Return(domain.ErrEventoNotFound).Once()
	_, err = f.svc.Issue(context.Background(), 2, 99, 1)
	assert.Equal(t, "NOT_FOUND", codeOf(err))

	f.ingressos.On("Issue", mock.Anything, mock.Anything, int64(404)).Return(domain.ErrUsuarioNotFound).Once()
	_, err = f.svc.Issue(context.Background(), 404, 10, 1)
	assert.Equal(t, "NOT_FOUND", codeOf(err))

	assert.Empty(t, f.rec.types())
}

func TestIngressoAccess(t *testing.T) {
	f := newIngressoFixture()

	_, err := f.svc.Get(context.Background(), 2, 50)
	assert.NoError(t, err, "holder")
	_, err = f.svc.Get(context.Background(), 1, 50)
	assert.NoError(t, err, "gestor")
	_, err = f.svc.Get(context.Background(), 3, 50)
	assert.Equal(t, "FORBIDDEN", codeOf(err))
	_, err = f.svc.Get(context.Background(), 2, 77)
	assert.Equal(t, "NOT_FOUND", codeOf(err))
}

func TestIngressoCheckIn(t *testing.T) {
	f := newIngressoFixture()

	_, err := f.svc.CheckIn(context.Background(), 2, 50)
	assert.Equal(t, "FORBIDDEN", codeOf(err), "holder cannot check in")

	used := &domain.Ingresso{ID: 50, EventoID: 10, UsuarioID: 2, Quantidade: 2, Status: domain.IngressoStatusUtilizado}
	f.ingressos.On("UpdateStatus", mock.Anything, int64(50), domain.IngressoStatusUtilizado, int64(1)).Return(used, nil).Once()

	got, err := f.svc.CheckIn(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.IngressoStatusUtilizado, got.Status)

	payload := f.rec.last().Payload.(events.IngressoPayload)
	require.NotNil(t, payload.StatusAnterior)
	assert.Equal(t, domain.IngressoStatusAtivo, *payload.StatusAnterior)
	assert.Equal(t, domain.IngressoStatusUtilizado, payload.Status)
}

func TestIngressoCancelInvalidTransition(t *testing.T) {
	f := newIngressoFixture()
	f.ingressos.On("UpdateStatus", mock.Anything, int64(50), domain.IngressoStatusCancelado, int64(2)).
		Return(nil, fmt.Errorf("%w: UTILIZADO to CANCELADO", domain.ErrInvalidTransition)).Once()

	_, err := f.svc.Cancel(context.Background(), 2, 50)
	assert.Equal(t, "CONFLICT", codeOf(err))

	_, err = f.svc.Cancel(context.Background(), 3, 50)
	assert.Equal(t, "FORBIDDEN", codeOf(err))
}

func TestIngressoDelete(t *testing.T) {
	f := newIngressoFixture()

	err := f.svc.Delete(context.Background(), 3, 50)
	assert.Equal(t, "FORBIDDEN", codeOf(err))
	f.ingressos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	f.ingressos.On("Delete", mock.Anything, int64(50)).Return(nil).Once()
	require.NoError(t, f.svc.Delete(context.Background(), 2, 50))
	assert.Equal(t, []events.EventType{events.EventIngressoRemovido}, f.rec.types())
}

func TestIngressoListings(t *testing.T) {
	f := newIngressoFixture()
	f.usuarios.On("GetByID", mock.Anything, int64(2)).Return(bob, nil)
	f.usuarios.On("GetByID", mock.Anything, int64(404)).Return(nil, domain.ErrUsuarioNotFound)
	held := []domain.Ingresso{{ID: 50, UsuarioID: 2}, {ID: 52, UsuarioID: 2}}
	f.ingressos.On("ListByUsuario", mock.Anything, int64(2)).Return(held, nil)
	f.ingressos.On("ListByEvento", mock.Anything, int64(10)).Return(held, nil)
	f.historico.On("ListByIngresso", mock.Anything, int64(50)).Return([]domain.IngressoHistorico{
		{ID: 1, IngressoID: 50, StatusNovo: domain.IngressoStatusAtivo},
	}, nil)

	got, err := f.svc.ListByUsuario(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, held, got)

	_, err = f.svc.ListByUsuario(context.Background(), 404)
	assert.Equal(t, "NOT_FOUND", codeOf(err))

	got, err = f.svc.ListByEvento(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.svc.ListByEvento(context.Background(), 2, 10)
	assert.Equal(t, "FORBIDDEN", codeOf(err))

	hist, err := f.svc.Historico(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Nil(t, hist[0].StatusAnterior)
}
