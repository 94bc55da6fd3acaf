package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/eventpass/internal/domain"
)

// IngressoRepository encapsulates ticket persistence.
type IngressoRepository interface {
	Issue(ctx context.Context, ingresso *domain.Ingresso, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ingresso, error)
	ListByUsuario(ctx context.Context, usuarioID int64) ([]domain.Ingresso, error)
	ListByEvento(ctx context.Context, eventoID int64) ([]domain.Ingresso, error)
	UpdateStatus(ctx context.Context, id int64, next domain.IngressoStatus, actorID int64) (*domain.Ingresso, error)
	Delete(ctx context.Context, id int64) error
}

type ingressoRepository struct {
	pool      *pgxpool.Pool
	historico IngressoHistoricoRepository
}

// NewIngressoRepository instantiates repository.
func NewIngressoRepository(pool *pgxpool.Pool, historico IngressoHistoricoRepository) IngressoRepository {
	return &ingressoRepository{pool: pool, historico: historico}
}

const ingressoColumns = `id, evento_id, usuario_id, quantidade, status, criado_em, atualizado_em`

// Issue inserts an ATIVO ingresso if the evento still has room for its quantity.
// The evento row lock serialises concurrent purchases so capacity is never oversold.
func (r *ingressoRepository) Issue(ctx context.Context, ingresso *domain.Ingresso, actorID int64) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		q := conn(ctx, r.pool)

		var total int
		if err := lockEvento(ctx, q, ingresso.EventoID, &total); err != nil {
			return err
		}

		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE id=$1)`, ingresso.UsuarioID).Scan(&exists); err != nil {
			return fmt.Errorf("check usuario: %w", err)
		}
		if !exists {
			return domain.ErrUsuarioNotFound
		}

		var issued int
		if err := q.QueryRow(ctx, issuedQuery, ingresso.EventoID, releasedStatus).Scan(&issued); err != nil {
			return fmt.Errorf("sum issued: %w", err)
		}
		available := total - issued
		if available < 0 {
			available = 0
		}
		if ingresso.Quantidade > available {
			return &domain.CapacityError{Requested: ingresso.Quantidade, Available: available}
		}

		ingresso.Status = domain.IngressoStatusAtivo
		const insert = `
            INSERT INTO ingressos (evento_id, usuario_id, quantidade, status)
            VALUES ($1,$2,$3,$4)
            RETURNING id, criado_em, atualizado_em`
		if err := q.QueryRow(ctx, insert,
			ingresso.EventoID,
			ingresso.UsuarioID,
			ingresso.Quantidade,
			int(ingresso.Status),
		).Scan(&ingresso.ID, &ingresso.CriadoEm, &ingresso.AtualizadoEm); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUsuarioNotFound
			}
			return fmt.Errorf("insert ingresso: %w", err)
		}

		return r.historico.Create(ctx, &domain.IngressoHistorico{
			IngressoID: ingresso.ID,
			UsuarioID:  actorID,
			StatusNovo: ingresso.Status,
		})
	})
}

func (r *ingressoRepository) GetByID(ctx context.Context, id int64) (*domain.Ingresso, error) {
	var ingresso domain.Ingresso
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+ingressoColumns+` FROM ingressos WHERE id=$1`, id).Scan(
		&ingresso.ID,
		&ingresso.EventoID,
		&ingresso.UsuarioID,
		&ingresso.Quantidade,
		&ingresso.Status,
		&ingresso.CriadoEm,
		&ingresso.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIngressoNotFound
		}
		return nil, fmt.Errorf("get ingresso: %w", err)
	}
	return &ingresso, nil
}

func (r *ingressoRepository) ListByUsuario(ctx context.Context, usuarioID int64) ([]domain.Ingresso, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+ingressoColumns+` FROM ingressos WHERE usuario_id=$1 ORDER BY id ASC`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("list ingressos by usuario: %w", err)
	}
	defer rows.Close()
	return scanIngressos(rows)
}

func (r *ingressoRepository) ListByEvento(ctx context.Context, eventoID int64) ([]domain.Ingresso, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+ingressoColumns+` FROM ingressos WHERE evento_id=$1 ORDER BY id ASC`, eventoID)
	if err != nil {
		return nil, fmt.Errorf("list ingressos by evento: %w", err)
	}
	defer rows.Close()
	return scanIngressos(rows)
}

func (r *ingressoRepository) UpdateStatus(ctx context.Context, id int64, next domain.IngressoStatus, actorID int64) (*domain.Ingresso, error) {
	var updated *domain.Ingresso
	err := withTx(ctx, r.pool, func(ctx context.Context) error {
		q := conn(ctx, r.pool)

		var current domain.IngressoStatus
		if err := q.QueryRow(ctx, `SELECT status FROM ingressos WHERE id=$1 FOR UPDATE`, id).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrIngressoNotFound
			}
			return fmt.Errorf("lock ingresso: %w", err)
		}
		if !current.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, next)
		}

		if _, err := q.Exec(ctx, `UPDATE ingressos SET status=$1, atualizado_em=NOW() WHERE id=$2`, int(next), id); err != nil {
			return fmt.Errorf("update ingresso status: %w", err)
		}
		if err := r.historico.Create(ctx, &domain.IngressoHistorico{
			IngressoID:     id,
			UsuarioID:      actorID,
			StatusAnterior: &current,
			StatusNovo:     next,
		}); err != nil {
			return err
		}

		ingresso, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = ingresso
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an ingresso; its history goes with it.
func (r *ingressoRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM ingressos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete ingresso: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrIngressoNotFound
	}
	return nil
}

func scanIngressos(rows pgx.Rows) ([]domain.Ingresso, error) {
	result := []domain.Ingresso{}
	for rows.Next() {
		var ingresso domain.Ingresso
		if err := rows.Scan(
			&ingresso.ID,
			&ingresso.EventoID,
			&ingresso.UsuarioID,
			&ingresso.Quantidade,
			&ingresso.Status,
			&ingresso.CriadoEm,
			&ingresso.AtualizadoEm,
		); err != nil {
			return nil, fmt.Errorf("scan ingresso: %w", err)
		}
		result = append(result, ingresso)
	}
	return result, rows.Err()
}
