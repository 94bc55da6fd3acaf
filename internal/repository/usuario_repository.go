package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/eventpass/internal/domain"
)

// UsuarioRepository defines persistence access for accounts.
type UsuarioRepository interface {
	Create(ctx context.Context, usuario *domain.Usuario) error
	Update(ctx context.Context, usuario *domain.Usuario) error
	GetByID(ctx context.Context, id int64) (*domain.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*domain.Usuario, error)
	GetByResetToken(ctx context.Context, token string) (*domain.Usuario, error)
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

type usuarioRepository struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository returns a Postgres-backed implementation.
func NewUsuarioRepository(pool *pgxpool.Pool) UsuarioRepository {
	return &usuarioRepository{pool: pool}
}

const usuarioColumns = `id, nome, cpf, email, senha_hash, tipo, token_redefinicao_senha, token_expira_em, criado_em, atualizado_em`

func (r *usuarioRepository) Create(ctx context.Context, usuario *domain.Usuario) error {
	const query = `
        INSERT INTO usuarios (nome, cpf, email, senha_hash, tipo)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, criado_em, atualizado_em`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		usuario.Nome,
		usuario.CPF,
		usuario.Email,
		usuario.SenhaHash,
		usuario.Role.Tipo(),
	).Scan(&usuario.ID, &usuario.CriadoEm, &usuario.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create usuario: %w", err)
	}
	return nil
}

func (r *usuarioRepository) Update(ctx context.Context, usuario *domain.Usuario) error {
	const query = `
        UPDATE usuarios SET nome=$1, cpf=$2, email=$3, senha_hash=$4,
            token_redefinicao_senha=$5, token_expira_em=$6, atualizado_em=NOW()
        WHERE id=$7
        RETURNING atualizado_em`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		usuario.Nome,
		usuario.CPF,
		usuario.Email,
		usuario.SenhaHash,
		usuario.TokenRedefinicaoSenha,
		usuario.TokenExpiraEm,
		usuario.ID,
	).Scan(&usuario.AtualizadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUsuarioNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	return nil
}

func (r *usuarioRepository) GetByID(ctx context.Context, id int64) (*domain.Usuario, error) {
	return r.fetchSingle(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE id=$1`, id)
}

func (r *usuarioRepository) GetByEmail(ctx context.Context, email string) (*domain.Usuario, error) {
	return r.fetchSingle(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *usuarioRepository) GetByResetToken(ctx context.Context, token string) (*domain.Usuario, error) {
	usuario, err := r.fetchSingle(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE token_redefinicao_senha=$1`, token)
	if errors.Is(err, domain.ErrUsuarioNotFound) {
		return nil, domain.ErrResetTokenNotFound
	}
	return usuario, err
}

func (r *usuarioRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	const query = `
        UPDATE usuarios SET token_redefinicao_senha=$1, token_expira_em=$2, atualizado_em=NOW()
        WHERE id=$3`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query, token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUsuarioNotFound
	}
	return nil
}

// Delete removes a usuario and, through the store cascade, the eventos it manages.
// It refuses while the usuario holds ingressos or any of its eventos has ingressos.
func (r *usuarioRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		q := conn(ctx, r.pool)

		var locked int64
		if err := q.QueryRow(ctx, `SELECT id FROM usuarios WHERE id=$1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUsuarioNotFound
			}
			return fmt.Errorf("lock usuario: %w", err)
		}

		var held bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ingressos WHERE usuario_id=$1)`, id).Scan(&held); err != nil {
			return fmt.Errorf("check held ingressos: %w", err)
		}
		if held {
			return domain.ErrUsuarioHasIngressos
		}

		var sold bool
		const soldQuery = `
            SELECT EXISTS (
                SELECT 1 FROM ingressos i JOIN eventos e ON e.id = i.evento_id
                WHERE e.gestor_id=$1)`
		if err := q.QueryRow(ctx, soldQuery, id).Scan(&sold); err != nil {
			return fmt.Errorf("check managed ingressos: %w", err)
		}
		if sold {
			return domain.ErrGestorHasIngressos
		}

		if _, err := q.Exec(ctx, `DELETE FROM usuarios WHERE id=$1`, id); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", domain.ErrReferenceRestricted, constraintName(err))
			}
			return fmt.Errorf("delete usuario: %w", err)
		}
		return nil
	})
}

func (r *usuarioRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Usuario, error) {
	var (
		usuario domain.Usuario
		tipo    int
	)
	if err := conn(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&usuario.ID,
		&usuario.Nome,
		&usuario.CPF,
		&usuario.Email,
		&usuario.SenhaHash,
		&tipo,
		&usuario.TokenRedefinicaoSenha,
		&usuario.TokenExpiraEm,
		&usuario.CriadoEm,
		&usuario.AtualizadoEm,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUsuarioNotFound
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	usuario.Role = domain.ParseRole(tipo)
	return &usuario, nil
}
