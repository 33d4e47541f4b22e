package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

// ListRepository implements repository.ListRepository for SQLite.
type ListRepository struct {
	db *DB
}

// NewListRepository creates a new ListRepository.
func NewListRepository(db *DB) *ListRepository {
	return &ListRepository{db: db}
}

// FetchAll returns every entry ordered by field and value.
func (r *ListRepository) FetchAll(ctx context.Context) ([]domain.ListEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, field, value FROM custom_lists ORDER BY field, value`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ListEntry
	for rows.Next() {
		var entry domain.ListEntry
		var field string
		if err := rows.Scan(&entry.ID, &field, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.Field = domain.ListField(field)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// InsertMany stores entries in one transaction; either all are stored or
// none.
func (r *ListRepository) InsertMany(ctx context.Context, entries []domain.ListEntry) ([]domain.ListEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := formatTime(r.db.timestamp())
	stored := make([]domain.ListEntry, 0, len(entries))
	for _, entry := range entries {
		entry.ID = uuid.NewString()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO custom_lists (id, field, value, created_at) VALUES (?, ?, ?, ?)`,
			entry.ID, string(entry.Field), entry.Value, createdAt,
		)
		if err != nil {
			return nil, insertError("custom_lists", err)
		}
		stored = append(stored, entry)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit entries: %w", err)
	}
	return stored, nil
}

// Delete removes one entry.
func (r *ListRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM custom_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return requireAffected(result)
}

var _ repository.ListRepository = (*ListRepository)(nil)
