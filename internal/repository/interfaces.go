package repository

import (
	"context"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// FetchAll returns every ticket in insertion order.
	FetchAll(ctx context.Context) ([]domain.Ticket, error)
	// Insert stores a new ticket and overwrites it with the stored row.
	Insert(ctx context.Context, ticket *domain.Ticket) error
	// UpdateFields writes only the given fields of one ticket.
	UpdateFields(ctx context.Context, id string, changes domain.Changes) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	// Search evaluates filter criteria in the store with the same matching
	// rules as filter.Apply.
	Search(ctx context.Context, criteria filter.Criteria) ([]domain.Ticket, error)
}

// ListRepository stores custom list entries.
type ListRepository interface {
	FetchAll(ctx context.Context) ([]domain.ListEntry, error)
	InsertMany(ctx context.Context, entries []domain.ListEntry) ([]domain.ListEntry, error)
	Delete(ctx context.Context, id string) error
}

// ScriptRepository stores reply templates.
type ScriptRepository interface {
	// FetchAll returns scripts newest first.
	FetchAll(ctx context.Context) ([]domain.Script, error)
	GetByID(ctx context.Context, id string) (*domain.Script, error)
	Insert(ctx context.Context, script *domain.Script) error
}
