package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

type listRepository struct {
	pool *pgxpool.Pool
}

// NewListRepository instantiates the postgres custom list store.
func NewListRepository(pool *pgxpool.Pool) ListRepository {
	return &listRepository{pool: pool}
}

func (r *listRepository) FetchAll(ctx context.Context) ([]domain.ListEntry, error) {
	const query = `SELECT id, field, value FROM custom_lists ORDER BY field, value`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ListEntry
	for rows.Next() {
		var entry domain.ListEntry
		if err := rows.Scan(&entry.ID, &entry.Field, &entry.Value); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// InsertMany stores all entries in one transaction.
func (r *listRepository) InsertMany(ctx context.Context, entries []domain.ListEntry) ([]domain.ListEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `INSERT INTO custom_lists (field, value) VALUES ($1, $2) RETURNING id, field, value`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(query, string(entry.Field), entry.Value)
	}
	results := tx.SendBatch(ctx, batch)

	stored := make([]domain.ListEntry, 0, len(entries))
	for range entries {
		var entry domain.ListEntry
		if err := results.QueryRow().Scan(&entry.ID, &entry.Field, &entry.Value); err != nil {
			_ = results.Close()
			return nil, insertError("custom_lists", err)
		}
		stored = append(stored, entry)
	}
	if err := results.Close(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM custom_lists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertError(collection string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &InsertError{Collection: collection, Err: errors.New(pgErr.Message)}
	}
	return err
}
