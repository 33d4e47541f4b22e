package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

func TestListRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewListRepository(db)
	ctx := context.Background()

	stored, err := repo.InsertMany(ctx, []domain.ListEntry{
		{Field: domain.ListFieldTag, Value: "vip"},
		{Field: domain.ListFieldHandler, Value: "dana"},
		{Field: domain.ListFieldHandler, Value: "bruno"},
	})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, entry := range stored {
		require.NotEmpty(t, entry.ID)
	}

	entries, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "bruno", entries[0].Value)
	require.Equal(t, "dana", entries[1].Value)
	require.Equal(t, domain.ListFieldTag, entries[2].Field)

	require.NoError(t, repo.Delete(ctx, entries[0].ID))
	require.ErrorIs(t, repo.Delete(ctx, entries[0].ID), repository.ErrNotFound)

	entries, err = repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestListRepository_InsertManyIsAtomic(t *testing.T) {
	db := NewTestDB(t)
	repo := NewListRepository(db)
	ctx := context.Background()

	_, err := repo.InsertMany(ctx, []domain.ListEntry{
		{Field: domain.ListFieldOrganization, Value: "Acme"},
		{Field: domain.ListField("department"), Value: "Support"},
	})
	var insertErr *repository.InsertError
	require.ErrorAs(t, err, &insertErr)
	require.Equal(t, "custom_lists", insertErr.Collection)

	entries, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)

	stored, err := repo.InsertMany(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, stored)
}
