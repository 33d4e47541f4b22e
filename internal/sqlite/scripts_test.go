package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

func TestScriptRepository(t *testing.T) {
	db := NewTestDB(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	db.now = steppingClock(start)
	repo := NewScriptRepository(db)
	ctx := context.Background()

	older := &domain.Script{Name: "greeting", RawTemplate: "Hello ()"}
	require.NoError(t, repo.Insert(ctx, older))
	require.NotEmpty(t, older.ID)
	require.True(t, start.Equal(older.CreatedAt))

	newer := &domain.Script{Name: "closing", RawTemplate: "{[Bye][Regards]}, ()"}
	require.NoError(t, repo.Insert(ctx, newer))

	scripts, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	require.Equal(t, newer.ID, scripts[0].ID)
	require.Equal(t, older.ID, scripts[1].ID)

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello ()", got.RawTemplate)
	require.True(t, older.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
