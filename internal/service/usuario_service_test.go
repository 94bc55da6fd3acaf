package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/eventpass/internal/auth"
	"github.com/spec-kit/eventpass/internal/domain"
	"github.com/spec-kit/eventpass/internal/events"
	apperrors "github.com/spec-kit/eventpass/pkg/util"
)

func validUsuarioInput() UsuarioCreateInput {
	return UsuarioCreateInput{
		Nome:           "Ana",
		CPF:            "123.456.789-01",
		Email:          " Ana@Example.com ",
		Senha:          "segredo",
		ConfirmarSenha: "segredo",
		Tipo:           1,
	}
}

func TestUsuarioCreateValidation(t *testing.T) {
	repo := &usuarioRepoMock{}
	svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo, BcryptCost: 4})

	input := validUsuarioInput()
	input.Nome = " "
	input.CPF = "123"
	input.ConfirmarSenha = "outra"

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Contains(t, de.Details, "nome")
	assert.Contains(t, de.Details, "cpf")
	assert.Contains(t, de.Details, "confirmar_senha")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUsuarioCreateStoresHashAndPublishes(t *testing.T) {
	repo := &usuarioRepoMock{}
	rec := newRecorder()
	svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo, Dispatcher: rec, BcryptCost: 4})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Usuario")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Usuario).ID = 7 }).
		Return(nil).Once()

	usuario, err := svc.Create(context.Background(), validUsuarioInput())
	require.NoError(t, err)
	assert.Equal(t, int64(7), usuario.ID)
	assert.Equal(t, "ana@example.com", usuario.Email)
	assert.Equal(t, "12345678901", usuario.CPF)
	assert.Equal(t, domain.RoleManager, usuario.Role)
	assert.NoError(t, auth.ComparePassword(usuario.SenhaHash, "segredo"))
	assert.Equal(t, []events.EventType{events.EventUsuarioRegistrado}, rec.types())
	repo.AssertExpectations(t)
}

func TestUsuarioCreateAttendeeForAnyOtherTipo(t *testing.T) {
	repo := &usuarioRepoMock{}
	svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo, BcryptCost: 4})
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	input := validUsuarioInput()
	input.Tipo = 0
	usuario, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAttendee, usuario.Role)
	assert.Equal(t, 2, usuario.Role.Tipo())
}

func TestUsuarioCreateDuplicateEmail(t *testing.T) {
	repo := &usuarioRepoMock{}
	svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo, BcryptCost: 4})
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)

	_, err := svc.Create(context.Background(), validUsuarioInput())
	assert.Equal(t, "CONFLICT", codeOf(err))
}

func TestUsuarioUpdate(t *testing.T) {
	repo := &usuarioRepoMock{}
	svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo})
	stored := &domain.Usuario{ID: 3, Nome: "Bob", CPF: "12345678901", Email: "bob@example.com", Role: domain.RoleAttendee, SenhaHash: "h"}
	repo.On("GetByID", mock.Anything, int64(3)).Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)

	updated, err := svc.Update(context.Background(), 3, UsuarioUpdateInput{Nome: "Roberto", CPF: "12.345.678/0001-90", Email: "BOB@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Roberto", updated.Nome)
	assert.Equal(t, "12345678000190", updated.CPF)
	assert.Equal(t, "bob@example.com", updated.Email)
	assert.Equal(t, domain.RoleAttendee, updated.Role)
	assert.Equal(t, "h", updated.SenhaHash)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrUsuarioNotFound)
	_, err = svc.Update(context.Background(), 99, UsuarioUpdateInput{Nome: "X", CPF: "12345678901", Email: "x@example.com"})
	assert.Equal(t, "NOT_FOUND", codeOf(err))
}

func TestUsuarioDelete(t *testing.T) {
	cases := []struct {
		name    string
		repoErr error
		code    string
	}{
		{"holds ingressos", domain.ErrUsuarioHasIngressos, "CONFLICT"},
		{"manages sold eventos", domain.ErrGestorHasIngressos, "CONFLICT"},
		{"restricted late", domain.ErrReferenceRestricted, "CONFLICT"},
		{"missing", domain.ErrUsuarioNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &usuarioRepoMock{}
			ec := &cacheMock{}
			svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo, EventoCache: ec})
			repo.On("Delete", mock.Anything, int64(5)).Return(tc.repoErr)

			err := svc.Delete(context.Background(), 5)
			assert.Equal(t, tc.code, codeOf(err))
			ec.AssertNotCalled(t, "Invalidate", mock.Anything)
		})
	}

	t.Run("success cascades and invalidates listing", func(t *testing.T) {
		repo := &usuarioRepoMock{}
		ec := &cacheMock{}
		rec := newRecorder()
		svc := NewUsuarioService(UsuarioDependencies{UsuarioRepo: repo, EventoCache: ec, Dispatcher: rec})
		repo.On("Delete", mock.Anything, int64(5)).Return(nil)
		ec.On("Invalidate", mock.Anything).Return().Once()

		require.NoError(t, svc.Delete(context.Background(), 5))
		ec.AssertExpectations(t)
		assert.Equal(t, []events.EventType{events.EventUsuarioRemovido}, rec.types())
	})
}
