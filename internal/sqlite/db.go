package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
	now func() time.Time
}

// New opens a SQLite database. A single connection is used so that
// in-memory databases are shared by every query.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{DB: db, now: time.Now}, nil
}

// RunMigrations creates the schema if it does not exist.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS tickets (
    id TEXT PRIMARY KEY,
    process_number TEXT NOT NULL,
    opened_on TEXT NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    handler TEXT NOT NULL DEFAULT '',
    functionality TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    request_text TEXT NOT NULL DEFAULT '',
    response_text TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    status TEXT CHECK(status IN ('in_progress', 'closed')),
    closed_on TEXT,
    satisfaction TEXT CHECK(satisfaction IN ('very_satisfied', 'satisfied', 'neutral', 'dissatisfied', 'very_dissatisfied')),
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets(created_at);

CREATE TABLE IF NOT EXISTS custom_lists (
    id TEXT PRIMARY KEY,
    field TEXT NOT NULL CHECK(field IN ('organization', 'handler', 'tag', 'functionality')),
    value TEXT NOT NULL CHECK(value <> ''),
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scripts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    raw_template TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (db *DB) timestamp() time.Time {
	return db.now().UTC()
}

// timeLayout has fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(timeLayout, raw)
}
