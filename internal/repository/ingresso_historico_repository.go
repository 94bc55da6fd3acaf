package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/eventpass/internal/domain"
)

// IngressoHistoricoRepository stores status audit entries.
type IngressoHistoricoRepository interface {
	Create(ctx context.Context, entry *domain.IngressoHistorico) error
	ListByIngresso(ctx context.Context, ingressoID int64) ([]domain.IngressoHistorico, error)
}

type ingressoHistoricoRepository struct {
	pool *pgxpool.Pool
}

// NewIngressoHistoricoRepository builds repository.
func NewIngressoHistoricoRepository(pool *pgxpool.Pool) IngressoHistoricoRepository {
	return &ingressoHistoricoRepository{pool: pool}
}

func (r *ingressoHistoricoRepository) Create(ctx context.Context, entry *domain.IngressoHistorico) error {
	const query = `
        INSERT INTO ingresso_historico (ingresso_id, usuario_id, status_anterior, status_novo)
        VALUES ($1,$2,$3,$4)
        RETURNING id, criado_em`
	if err := conn(ctx, r.pool).QueryRow(ctx, query,
		entry.IngressoID,
		entry.UsuarioID,
		statusArg(entry.StatusAnterior),
		int(entry.StatusNovo),
	).Scan(&entry.ID, &entry.CriadoEm); err != nil {
		return fmt.Errorf("create historico: %w", err)
	}
	return nil
}

func (r *ingressoHistoricoRepository) ListByIngresso(ctx context.Context, ingressoID int64) ([]domain.IngressoHistorico, error) {
	const query = `
        SELECT id, ingresso_id, usuario_id, status_anterior, status_novo, criado_em
        FROM ingresso_historico WHERE ingresso_id=$1 ORDER BY id ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, ingressoID)
	if err != nil {
		return nil, fmt.Errorf("list historico: %w", err)
	}
	defer rows.Close()

	result := []domain.IngressoHistorico{}
	for rows.Next() {
		var entry domain.IngressoHistorico
		if err := rows.Scan(
			&entry.ID,
			&entry.IngressoID,
			&entry.UsuarioID,
			&entry.StatusAnterior,
			&entry.StatusNovo,
			&entry.CriadoEm,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func statusArg(s *domain.IngressoStatus) *int {
	if s == nil {
		return nil
	}
	v := int(*s)
	return &v
}
