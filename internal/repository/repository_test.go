package repository

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/testutil"
)

type repos struct {
	usuarios  UsuarioRepository
	eventos   EventoRepository
	ingressos IngressoRepository
	historico IngressoHistoricoRepository
}

func newRepos(pool *pgxpool.Pool) repos {
	historico := NewIngressoHistoricoRepository(pool)
	return repos{
		usuarios:  NewUsuarioRepository(pool),
		eventos:   NewEventoRepository(pool),
		ingressos: NewIngressoRepository(pool, historico),
		historico: historico,
	}
}

func seedUsuario(t *testing.T, r repos, nome, email string, role domain.Role) *domain.Usuario {
	t.Helper()
	u := &domain.Usuario{Nome: nome, CPF: "12345678909", Email: email, SenhaHash: "hash", Role: role}
	require.NoError(t, r.usuarios.Create(context.Background(), u))
	return u
}

func seedEvento(t *testing.T, r repos, nome string, gestorID int64, total int) *domain.Evento {
	t.Helper()
	e := &domain.Evento{
		Nome:           nome,
		Descricao:      "descricao",
		Data:           time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Hora:           21 * time.Hour,
		Local:          "Arena",
		TotalIngressos: total,
		GestorID:       gestorID,
	}
	require.NoError(t, r.eventos.Create(context.Background(), e))
	return e
}

func TestScenario_RestrictAndCascade(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	show := seedEvento(t, r, "Show", ana.ID, 10)
	bob := seedUsuario(t, r, "Bob", "bob@example.com", domain.RoleAttendee)

	ing := &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: 2}
	require.NoError(t, r.ingressos.Issue(ctx, ing, bob.ID))
	assert.Equal(t, 2, ing.Quantidade)
	assert.Equal(t, domain.IngressoStatusAtivo, ing.Status)

	assert.ErrorIs(t, r.eventos.Delete(ctx, show.ID), domain.ErrEventoHasIngressos)
	stored, err := r.eventos.GetByID(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, "Show", stored.Nome)
	assert.Equal(t, 2, stored.IngressosEmitidos)

	assert.ErrorIs(t, r.usuarios.Delete(ctx, bob.ID), domain.ErrUsuarioHasIngressos)
	assert.ErrorIs(t, r.usuarios.Delete(ctx, ana.ID), domain.ErrGestorHasIngressos)

	require.NoError(t, r.ingressos.Delete(ctx, ing.ID))
	require.NoError(t, r.eventos.Delete(ctx, show.ID))
	_, err = r.eventos.GetByID(ctx, show.ID)
	assert.ErrorIs(t, err, domain.ErrEventoNotFound)
}

func TestUsuarioDelete_CascadesEventos(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	other := seedUsuario(t, r, "Carla", "carla@example.com", domain.RoleManager)
	for _, nome := range []string{"A", "B", "C"} {
		seedEvento(t, r, nome, ana.ID, 5)
	}
	kept := seedEvento(t, r, "D", other.ID, 5)

	require.NoError(t, r.usuarios.Delete(ctx, ana.ID))

	eventos, err := r.eventos.List(ctx)
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, kept.ID, eventos[0].ID)

	_, err = r.usuarios.GetByID(ctx, ana.ID)
	assert.ErrorIs(t, err, domain.ErrUsuarioNotFound)
	assert.ErrorIs(t, r.usuarios.Delete(ctx, ana.ID), domain.ErrUsuarioNotFound)
}

func TestListByGestor_CreationOrder(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	carla := seedUsuario(t, r, "Carla", "carla@example.com", domain.RoleManager)
	first := seedEvento(t, r, "Primeiro", ana.ID, 5)
	seedEvento(t, r, "Outro", carla.ID, 5)
	second := seedEvento(t, r, "Segundo", ana.ID, 5)

	eventos, err := r.eventos.ListByGestor(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, eventos, 2)
	assert.Equal(t, first.ID, eventos[0].ID)
	assert.Equal(t, second.ID, eventos[1].ID)
	for _, e := range eventos {
		assert.Equal(t, ana.ID, e.GestorID)
		assert.Equal(t, 21*time.Hour, e.Hora)
	}
	assert.Less(t, first.ID, second.ID)
}

func TestCreateEvento_UnknownGestor(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	e := &domain.Evento{
		Nome: "X", Descricao: "d", Data: time.Now(), Local: "l", TotalIngressos: 1, GestorID: 999,
	}
	assert.ErrorIs(t, r.eventos.Create(context.Background(), e), domain.ErrUsuarioNotFound)
}

func TestIssue_DanglingReferences(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	show := seedEvento(t, r, "Show", ana.ID, 10)

	err := r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: 999, UsuarioID: ana.ID, Quantidade: 1}, ana.ID)
	assert.ErrorIs(t, err, domain.ErrEventoNotFound)

	err = r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: show.ID, UsuarioID: 999, Quantidade: 1}, 999)
	assert.ErrorIs(t, err, domain.ErrUsuarioNotFound)
}

func TestIssue_CapacityAndCancellation(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	bob := seedUsuario(t, r, "Bob", "bob@example.com", domain.RoleAttendee)
	show := seedEvento(t, r, "Show", ana.ID, 3)

	first := &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: 2}
	require.NoError(t, r.ingressos.Issue(ctx, first, bob.ID))

	err := r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: 2}, bob.ID)
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 1, capErr.Available)

	err = r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: math.MaxInt64}, bob.ID)
	require.True(t, errors.As(err, &capErr), "a quantity that would wrap issued+requested must still be refused")
	assert.Equal(t, 1, capErr.Available)

	emitted, err := r.eventos.GetByID(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, emitted.IngressosEmitidos)

	cancelled, err := r.ingressos.UpdateStatus(ctx, first.ID, domain.IngressoStatusCancelado, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngressoStatusCancelado, cancelled.Status)

	require.NoError(t, r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: 3}, bob.ID))

	_, err = r.ingressos.UpdateStatus(ctx, first.ID, domain.IngressoStatusUtilizado, ana.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	historico, err := r.historico.ListByIngresso(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, historico, 2)
	assert.Nil(t, historico[0].StatusAnterior)
	require.NotNil(t, historico[1].StatusAnterior)
	assert.Equal(t, domain.IngressoStatusAtivo, *historico[1].StatusAnterior)
	assert.Equal(t, domain.IngressoStatusCancelado, historico[1].StatusNovo)

	list, err := r.ingressos.ListByUsuario(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestIssue_ConcurrentPurchasesDoNotOversell(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	bob := seedUsuario(t, r, "Bob", "bob@example.com", domain.RoleAttendee)
	show := seedEvento(t, r, "Show", ana.ID, 5)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: 1}, bob.ID)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	stored, err := r.eventos.GetByID(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.IngressosEmitidos)
	assert.Zero(t, stored.IngressosDisponiveis())
}

func TestEventoUpdate_CapacityBelowIssued(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	bob := seedUsuario(t, r, "Bob", "bob@example.com", domain.RoleAttendee)
	show := seedEvento(t, r, "Show", ana.ID, 10)
	require.NoError(t, r.ingressos.Issue(ctx, &domain.Ingresso{EventoID: show.ID, UsuarioID: bob.ID, Quantidade: 4}, bob.ID))

	show.TotalIngressos = 3
	assert.ErrorIs(t, r.eventos.Update(ctx, show), domain.ErrCapacityBelowIssued)

	show.TotalIngressos = 4
	show.Nome = "Show Extra"
	require.NoError(t, r.eventos.Update(ctx, show))
	stored, err := r.eventos.GetByID(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, "Show Extra", stored.Nome)
	assert.Equal(t, 4, stored.TotalIngressos)
}

func TestUsuario_EmailAndResetToken(t *testing.T) {
	r := newRepos(testutil.NewTestPool(t))
	ctx := context.Background()

	ana := seedUsuario(t, r, "Ana", "ana@example.com", domain.RoleManager)
	dup := &domain.Usuario{Nome: "Ana 2", CPF: "12345678909", Email: "ANA@example.com", SenhaHash: "x", Role: domain.RoleAttendee}
	assert.ErrorIs(t, r.usuarios.Create(ctx, dup), domain.ErrEmailTaken)

	found, err := r.usuarios.GetByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, found.ID)
	assert.Equal(t, domain.RoleManager, found.Role)

	expires := time.Now().Add(time.Hour)
	require.NoError(t, r.usuarios.SetResetToken(ctx, ana.ID, "tok", expires))
	byToken, err := r.usuarios.GetByResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byToken.ID)

	_, err = r.usuarios.GetByResetToken(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrResetTokenNotFound)
}
