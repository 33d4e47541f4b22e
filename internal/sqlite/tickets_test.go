package sqlite

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

func insertTicket(t *testing.T, repo *TicketRepository, ticket domain.Ticket) domain.Ticket {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), &ticket))
	return ticket
}

func TestTicketRepository_InsertAndFetchAll(t *testing.T) {
	db := NewTestDB(t)
	db.now = steppingClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := NewTicketRepository(db)
	ctx := context.Background()

	first := insertTicket(t, repo, domain.Ticket{
		ProcessNumber: "P-1",
		OpenedOn:      "2024-03-01",
		Organization:  "Acme",
		Tags:          []string{"billing", "vip"},
		Status:        domain.TicketStatusInProgress,
	})
	require.NotEmpty(t, first.ID)
	require.NotNil(t, first.CreatedAt)
	second := insertTicket(t, repo, domain.Ticket{ProcessNumber: "P-2", OpenedOn: "2024-03-02"})

	tickets, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	require.Equal(t, first.ID, tickets[0].ID)
	require.Equal(t, []string{"billing", "vip"}, tickets[0].Tags)
	require.Equal(t, domain.TicketStatusInProgress, tickets[0].Status)
	require.True(t, first.CreatedAt.Equal(*tickets[0].CreatedAt))
	require.Equal(t, second.ID, tickets[1].ID)
	require.Empty(t, tickets[1].Tags)
	require.Empty(t, tickets[1].Status)
	require.Nil(t, tickets[1].ClosedOn)
}

func TestTicketRepository_InsertConstraintViolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)

	ticket := domain.Ticket{ProcessNumber: "P-1", OpenedOn: "2024-03-01", Status: "archived"}
	err := repo.Insert(context.Background(), &ticket)

	var insertErr *repository.InsertError
	require.ErrorAs(t, err, &insertErr)
	require.Contains(t, insertErr.Error(), "constraint failed")
	require.Empty(t, ticket.ID)
}

func TestTicketRepository_UpdateFields(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	stored := insertTicket(t, repo, domain.Ticket{ProcessNumber: "P-1", OpenedOn: "2024-03-01", Handler: "dana"})

	closedOn := "2024-03-05"
	level := domain.SatisfactionNeutral
	err := repo.UpdateFields(ctx, stored.ID, domain.Changes{
		domain.FieldStatus:       domain.TicketStatusClosed,
		domain.FieldClosedOn:     &closedOn,
		domain.FieldTags:         []string{"done"},
		domain.FieldSatisfaction: &level,
	})
	require.NoError(t, err)

	tickets, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	got := tickets[0]
	require.Equal(t, domain.TicketStatusClosed, got.Status)
	require.Equal(t, closedOn, *got.ClosedOn)
	require.Equal(t, []string{"done"}, got.Tags)
	require.Equal(t, level, *got.Satisfaction)
	require.Equal(t, "dana", got.Handler)

	err = repo.UpdateFields(ctx, stored.ID, domain.Changes{
		domain.FieldStatus:   domain.TicketStatusInProgress,
		domain.FieldClosedOn: (*string)(nil),
	})
	require.NoError(t, err)
	tickets, err = repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Nil(t, tickets[0].ClosedOn)

	err = repo.UpdateFields(ctx, "missing", domain.Changes{domain.FieldSummary: "x"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.UpdateFields(ctx, stored.ID, domain.Changes{}))
}

func TestTicketRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	a := insertTicket(t, repo, domain.Ticket{ProcessNumber: "A", OpenedOn: "2024-03-01"})
	b := insertTicket(t, repo, domain.Ticket{ProcessNumber: "B", OpenedOn: "2024-03-01"})
	c := insertTicket(t, repo, domain.Ticket{ProcessNumber: "C", OpenedOn: "2024-03-01"})

	require.NoError(t, repo.Delete(ctx, b.ID))
	require.ErrorIs(t, repo.Delete(ctx, b.ID), repository.ErrNotFound)

	require.NoError(t, repo.DeleteMany(ctx, []string{a.ID, c.ID, "unknown"}))
	require.NoError(t, repo.DeleteMany(ctx, nil))

	tickets, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Empty(t, tickets)
}

func TestTicketRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	insertTicket(t, repo, domain.Ticket{ProcessNumber: "2024-001", OpenedOn: "2024-01-05", Handler: "Dana", Tags: []string{"Billing"}})
	insertTicket(t, repo, domain.Ticket{ProcessNumber: "2024-002", OpenedOn: "2024-01-15", Handler: "Eve", Tags: []string{"invoice"}})

	found, err := repo.Search(ctx, filter.Criteria{Handler: "dan"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "2024-001", found[0].ProcessNumber)

	found, err = repo.Search(ctx, filter.Criteria{Tag: "bill"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = repo.Search(ctx, filter.Criteria{OpenedOn: "2024-01"})
	require.NoError(t, err)
	require.Empty(t, found)

	found, err = repo.Search(ctx, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestTicketRepository_SearchAgreesWithFilter(t *testing.T) {
	db := NewTestDB(t)
	db.now = steppingClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := NewTicketRepository(db)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(3))

	words := []string{"Acme", "acme corp", "Globex", "dana", "DANA", "eve", "billing", "Bill", "support", ""}
	dates := []string{"2024-01-05", "2024-01-15", "2024-02-01"}
	pick := func() string { return words[rng.Intn(len(words))] }

	for i := 0; i < 40; i++ {
		insertTicket(t, repo, domain.Ticket{
			ProcessNumber: fmt.Sprintf("P-%d", i),
			OpenedOn:      dates[rng.Intn(len(dates))],
			Organization:  pick(),
			Handler:       pick(),
			Functionality: pick(),
			Tags:          []string{pick(), pick()},
		})
	}
	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		criteria := filter.Criteria{
			Organization: pick(),
			Handler:      pick(),
			Tag:          pick(),
		}
		if rng.Intn(3) == 0 {
			criteria.OpenedOn = dates[rng.Intn(len(dates))]
		}
		found, err := repo.Search(ctx, criteria)
		require.NoError(t, err)
		require.Equal(t, ids(filter.Apply(all, criteria)), ids(found), "criteria %+v", criteria)
	}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, ticket.ID)
	}
	return out
}

func TestTicketRepository_CanceledContext(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTicketRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchAll(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}
