package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

type scriptRepository struct {
	pool *pgxpool.Pool
}

// NewScriptRepository instantiates the postgres script store.
func NewScriptRepository(pool *pgxpool.Pool) ScriptRepository {
	return &scriptRepository{pool: pool}
}

func (r *scriptRepository) FetchAll(ctx context.Context) ([]domain.Script, error) {
	const query = `SELECT id, name, raw_template, created_at FROM scripts ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Script
	for rows.Next() {
		var script domain.Script
		if err := rows.Scan(&script.ID, &script.Name, &script.RawTemplate, &script.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, script)
	}
	return result, rows.Err()
}

func (r *scriptRepository) GetByID(ctx context.Context, id string) (*domain.Script, error) {
	const query = `SELECT id, name, raw_template, created_at FROM scripts WHERE id=$1`
	var script domain.Script
	err := r.pool.QueryRow(ctx, query, id).Scan(&script.ID, &script.Name, &script.RawTemplate, &script.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &script, nil
}

func (r *scriptRepository) Insert(ctx context.Context, script *domain.Script) error {
	const query = `INSERT INTO scripts (name, raw_template) VALUES ($1, $2) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, script.Name, script.RawTemplate).Scan(&script.ID, &script.CreatedAt)
	if err != nil {
		return insertError("scripts", err)
	}
	return nil
}
