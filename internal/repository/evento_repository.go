package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/eventpass/internal/domain"
)

// EventoRepository encapsulates evento persistence.
type EventoRepository interface {
	Create(ctx context.Context, evento *domain.Evento) error
	Update(ctx context.Context, evento *domain.Evento) error
	GetByID(ctx context.Context, id int64) (*domain.Evento, error)
	List(ctx context.Context) ([]domain.Evento, error)
	ListByGestor(ctx context.Context, gestorID int64) ([]domain.Evento, error)
	Delete(ctx context.Context, id int64) error
}

type eventoRepository struct {
	pool *pgxpool.Pool
}

// NewEventoRepository instantiates repository.
func NewEventoRepository(pool *pgxpool.Pool) EventoRepository {
	return &eventoRepository{pool: pool}
}

// eventoSelect takes the released status as $1; callers number their own arguments from $2.
const eventoSelect = `
        SELECT e.id, e.nome, e.descricao, e.data, e.hora, e.local, e.total_ingressos, e.flyer,
               e.gestor_id, e.criado_em, e.atualizado_em,
               COALESCE((SELECT SUM(i.quantidade) FROM ingressos i
                         WHERE i.evento_id = e.id AND i.status <> $1), 0)::int
        FROM eventos e`

// issuedQuery sums quantities that still hold capacity. Args: evento id, released status.
const issuedQuery = `
        SELECT COALESCE(SUM(quantidade), 0)::int FROM ingressos
        WHERE evento_id=$1 AND status <> $2`

// releasedStatus is the only status whose quantity no longer counts against capacity.
const releasedStatus = int(domain.IngressoStatusCancelado)

func (r *eventoRepository) Create(ctx context.Context, evento *domain.Evento) error {
	const query = `
        INSERT INTO eventos (nome, descricao, data, hora, local, total_ingressos, flyer, gestor_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, criado_em, atualizado_em`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		evento.Nome,
		evento.Descricao,
		evento.Data,
		toPgTime(evento.Hora),
		evento.Local,
		evento.TotalIngressos,
		evento.Flyer,
		evento.GestorID,
	).Scan(&evento.ID, &evento.CriadoEm, &evento.AtualizadoEm)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUsuarioNotFound
		}
		return fmt.Errorf("create evento: %w", err)
	}
	return nil
}

// Update rewrites non-key attributes. Capacity may not drop below what is already issued.
func (r *eventoRepository) Update(ctx context.Context, evento *domain.Evento) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		q := conn(ctx, r.pool)
		if err := lockEvento(ctx, q, evento.ID, nil); err != nil {
			return err
		}

		var issued int
		if err := q.QueryRow(ctx, issuedQuery, evento.ID, releasedStatus).Scan(&issued); err != nil {
			return fmt.Errorf("sum issued: %w", err)
		}
		if evento.TotalIngressos < issued {
			return fmt.Errorf("%w: %d issued", domain.ErrCapacityBelowIssued, issued)
		}

		const query = `
            UPDATE eventos SET nome=$1, descricao=$2, data=$3, hora=$4, local=$5,
                total_ingressos=$6, flyer=$7, atualizado_em=NOW()
            WHERE id=$8
            RETURNING atualizado_em`
		if err := q.QueryRow(ctx, query,
			evento.Nome,
			evento.Descricao,
			evento.Data,
			toPgTime(evento.Hora),
			evento.Local,
			evento.TotalIngressos,
			evento.Flyer,
			evento.ID,
		).Scan(&evento.AtualizadoEm); err != nil {
			return fmt.Errorf("update evento: %w", err)
		}
		evento.IngressosEmitidos = issued
		return nil
	})
}

func (r *eventoRepository) GetByID(ctx context.Context, id int64) (*domain.Evento, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, eventoSelect+` WHERE e.id=$2`, releasedStatus, id)
	if err != nil {
		return nil, fmt.Errorf("get evento: %w", err)
	}
	defer rows.Close()
	eventos, err := scanEventos(rows)
	if err != nil {
		return nil, err
	}
	if len(eventos) == 0 {
		return nil, domain.ErrEventoNotFound
	}
	return &eventos[0], nil
}

func (r *eventoRepository) List(ctx context.Context) ([]domain.Evento, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, eventoSelect+` ORDER BY e.data ASC, e.hora ASC, e.id ASC`, releasedStatus)
	if err != nil {
		return nil, fmt.Errorf("list eventos: %w", err)
	}
	defer rows.Close()
	return scanEventos(rows)
}

// ListByGestor returns eventos of one manager in creation order.
func (r *eventoRepository) ListByGestor(ctx context.Context, gestorID int64) ([]domain.Evento, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, eventoSelect+` WHERE e.gestor_id=$2 ORDER BY e.id ASC`, releasedStatus, gestorID)
	if err != nil {
		return nil, fmt.Errorf("list eventos by gestor: %w", err)
	}
	defer rows.Close()
	return scanEventos(rows)
}

// Delete removes an evento with no ingressos.
func (r *eventoRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		q := conn(ctx, r.pool)
		if err := lockEvento(ctx, q, id, nil); err != nil {
			return err
		}

		var referenced bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ingressos WHERE evento_id=$1)`, id).Scan(&referenced); err != nil {
			return fmt.Errorf("check ingressos: %w", err)
		}
		if referenced {
			return domain.ErrEventoHasIngressos
		}

		if _, err := q.Exec(ctx, `DELETE FROM eventos WHERE id=$1`, id); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrEventoHasIngressos
			}
			return fmt.Errorf("delete evento: %w", err)
		}
		return nil
	})
}

// lockEvento takes the row lock that serialises purchases, capacity edits and deletes.
func lockEvento(ctx context.Context, q querier, id int64, total *int) error {
	var capacity int
	err := q.QueryRow(ctx, `SELECT total_ingressos FROM eventos WHERE id=$1 FOR UPDATE`, id).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventoNotFound
		}
		return fmt.Errorf("lock evento: %w", err)
	}
	if total != nil {
		*total = capacity
	}
	return nil
}

func scanEventos(rows pgx.Rows) ([]domain.Evento, error) {
	result := []domain.Evento{}
	for rows.Next() {
		var (
			evento domain.Evento
			hora   pgtype.Time
		)
		if err := rows.Scan(
			&evento.ID,
			&evento.Nome,
			&evento.Descricao,
			&evento.Data,
			&hora,
			&evento.Local,
			&evento.TotalIngressos,
			&evento.Flyer,
			&evento.GestorID,
			&evento.CriadoEm,
			&evento.AtualizadoEm,
			&evento.IngressosEmitidos,
		); err != nil {
			return nil, fmt.Errorf("scan evento: %w", err)
		}
		evento.Hora = fromPgTime(hora)
		result = append(result, evento)
	}
	return result, rows.Err()
}

func toPgTime(d time.Duration) pgtype.Time {
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) time.Duration {
	if !t.Valid {
		return 0
	}
	return time.Duration(t.Microseconds) * time.Microsecond
}
