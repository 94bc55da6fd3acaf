package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/eventpass/internal/cache"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

type usuarioRepoMock struct{ mock.Mock }

func (m *usuarioRepoMock) Create(ctx context.Context, u *domain.Usuario) error {
	return m.Called(ctx, u).Error(0)
}

func (m *usuarioRepoMock) Update(ctx context.Context, u *domain.Usuario) error {
	return m.Called(ctx, u).Error(0)
}

func (m *usuarioRepoMock) GetByID(ctx context.Context, id int64) (*domain.Usuario, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.Usuario)
	return u, args.Error(1)
}

func (m *usuarioRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Usuario, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.Usuario)
	return u, args.Error(1)
}

func (m *usuarioRepoMock) GetByResetToken(ctx context.Context, token string) (*domain.Usuario, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*domain.Usuario)
	return u, args.Error(1)
}

func (m *usuarioRepoMock) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	return m.Called(ctx, id, token, expiresAt).Error(0)
}

func (m *usuarioRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type eventoRepoMock struct{ mock.Mock }

func (m *eventoRepoMock) Create(ctx context.Context, e *domain.Evento) error {
	return m.Called(ctx, e).Error(0)
}

func (m *eventoRepoMock) Update(ctx context.Context, e *domain.Evento) error {
	return m.Called(ctx, e).Error(0)
}

func (m *eventoRepoMock) GetByID(ctx context.Context, id int64) (*domain.Evento, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.Evento)
	return e, args.Error(1)
}

func (m *eventoRepoMock) List(ctx context.Context) ([]domain.Evento, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]domain.Evento)
	return e, args.Error(1)
}

func (m *eventoRepoMock) ListByGestor(ctx context.Context, gestorID int64) ([]domain.Evento, error) {
	args := m.Called(ctx, gestorID)
	e, _ := args.Get(0).([]domain.Evento)
	return e, args.Error(1)
}

func (m *eventoRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type ingressoRepoMock struct{ mock.Mock }

func (m *ingressoRepoMock) Issue(ctx context.Context, i *domain.Ingresso, actorID int64) error {
	return m.Called(ctx, i, actorID).Error(0)
}

func (m *ingressoRepoMock) GetByID(ctx context.Context, id int64) (*domain.Ingresso, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*domain.Ingresso)
	return i, args.Error(1)
}

func (m *ingressoRepoMock) ListByUsuario(ctx context.Context, usuarioID int64) ([]domain.Ingresso, error) {
	args := m.Called(ctx, usuarioID)
	i, _ := args.Get(0).([]domain.Ingresso)
	return i, args.Error(1)
}

func (m *ingressoRepoMock) ListByEvento(ctx context.Context, eventoID int64) ([]domain.Ingresso, error) {
	args := m.Called(ctx, eventoID)
	i, _ := args.Get(0).([]domain.Ingresso)
	return i, args.Error(1)
}

func (m *ingressoRepoMock) UpdateStatus(ctx context.Context, id int64, next domain.IngressoStatus, actorID int64) (*domain.Ingresso, error) {
	args := m.Called(ctx, id, next, actorID)
	i, _ := args.Get(0).(*domain.Ingresso)
	return i, args.Error(1)
}

func (m *ingressoRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type historicoRepoMock struct{ mock.Mock }

func (m *historicoRepoMock) Create(ctx context.Context, entry *domain.IngressoHistorico) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *historicoRepoMock) ListByIngresso(ctx context.Context, ingressoID int64) ([]domain.IngressoHistorico, error) {
	args := m.Called(ctx, ingressoID)
	h, _ := args.Get(0).([]domain.IngressoHistorico)
	return h, args.Error(1)
}

type cacheMock struct{ mock.Mock }

func (m *cacheMock) GetAll(ctx context.Context) ([]domain.Evento, cache.Generation, bool) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]domain.Evento)
	return e, args.Get(1).(cache.Generation), args.Bool(2)
}

func (m *cacheMock) SetAll(ctx context.Context, gen cache.Generation, eventos []domain.Evento) {
	m.Called(ctx, gen, eventos)
}

func (m *cacheMock) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// recorder captures every published event.
type recorder struct {
	events.Dispatcher
	mu   sync.Mutex
	seen []events.Event
}

func newRecorder() *recorder {
	r := &recorder{Dispatcher: events.NewInMemoryDispatcher()}
	for _, t := range events.AllEventTypes {
		r.Subscribe(t, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.seen = append(r.seen, e)
			return nil
		})
	}
	return r
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.seen))
	for _, e := range r.seen {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[len(r.seen)-1]
}

func codeOf(err error) string {
	de := apperrors.ToDomainError(err)
	if de == nil {
		return ""
	}
	return de.Code
}
