package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

// ScriptRepository implements repository.ScriptRepository for SQLite.
type ScriptRepository struct {
	db *DB
}

// NewScriptRepository creates a new ScriptRepository.
func NewScriptRepository(db *DB) *ScriptRepository {
	return &ScriptRepository{db: db}
}

// FetchAll returns scripts newest first.
func (r *ScriptRepository) FetchAll(ctx context.Context) ([]domain.Script, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, raw_template, created_at FROM scripts ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []domain.Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, rows.Err()
}

// GetByID retrieves one script.
func (r *ScriptRepository) GetByID(ctx context.Context, id string) (*domain.Script, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, raw_template, created_at FROM scripts WHERE id = ?`, id)
	script, err := scanScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &script, nil
}

// Insert stores a script, assigning its id and creation time.
func (r *ScriptRepository) Insert(ctx context.Context, script *domain.Script) error {
	id := uuid.NewString()
	createdAt := r.db.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scripts (id, name, raw_template, created_at) VALUES (?, ?, ?, ?)`,
		id, script.Name, script.RawTemplate, formatTime(createdAt),
	)
	if err != nil {
		return insertError("scripts", err)
	}
	script.ID = id
	script.CreatedAt = createdAt
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScript(row rowScanner) (domain.Script, error) {
	var script domain.Script
	var createdAt string
	if err := row.Scan(&script.ID, &script.Name, &script.RawTemplate, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return script, err
		}
		return script, fmt.Errorf("failed to scan script: %w", err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return script, fmt.Errorf("failed to parse created_at of script %s: %w", script.ID, err)
	}
	script.CreatedAt = created
	return script, nil
}

var _ repository.ScriptRepository = (*ScriptRepository)(nil)
