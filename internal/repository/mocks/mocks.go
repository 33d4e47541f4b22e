package mocks

import (
	"context"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/stretchr/testify/mock"
)

// TicketRepository is a mock for repository.TicketRepository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) FetchAll(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if tickets, ok := args.Get(0).([]domain.Ticket); ok {
		return tickets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketRepository) UpdateFields(ctx context.Context, id string, changes domain.Changes) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *TicketRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TicketRepository) DeleteMany(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *TicketRepository) Search(ctx context.Context, criteria filter.Criteria) ([]domain.Ticket, error) {
	args := m.Called(ctx, criteria)
	if tickets, ok := args.Get(0).([]domain.Ticket); ok {
		return tickets, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListRepository is a mock for repository.ListRepository.
type ListRepository struct {
	mock.Mock
}

func (m *ListRepository) FetchAll(ctx context.Context) ([]domain.ListEntry, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]domain.ListEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) InsertMany(ctx context.Context, entries []domain.ListEntry) ([]domain.ListEntry, error) {
	args := m.Called(ctx, entries)
	if stored, ok := args.Get(0).([]domain.ListEntry); ok {
		return stored, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ScriptRepository is a mock for repository.ScriptRepository.
type ScriptRepository struct {
	mock.Mock
}

func (m *ScriptRepository) FetchAll(ctx context.Context) ([]domain.Script, error) {
	args := m.Called(ctx)
	if scripts, ok := args.Get(0).([]domain.Script); ok {
		return scripts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScriptRepository) GetByID(ctx context.Context, id string) (*domain.Script, error) {
	args := m.Called(ctx, id)
	if script, ok := args.Get(0).(*domain.Script); ok {
		return script, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScriptRepository) Insert(ctx context.Context, script *domain.Script) error {
	args := m.Called(ctx, script)
	return args.Error(0)
}
