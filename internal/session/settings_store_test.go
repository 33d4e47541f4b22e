package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/table"
)

func TestRedisSettingsStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisSettingsStore(client, "test:session:", time.Minute)
	id := uuid.NewString()

	_, ok, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.False(t, ok)

	want := table.Settings{
		Criteria:       filter.Criteria{Organization: "acme"},
		StatusColor:    table.StatusColorRed,
		SortField:      domain.FieldOpenedOn,
		SortDescending: true,
		Page:           2,
		PageSize:       15,
		Selected:       []string{"a", "b"},
	}
	require.NoError(t, store.Save(ctx, id, want))

	got, ok, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	ttl, err := client.TTL(ctx, "test:session:"+id).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, id))
	_, ok, err = store.Load(ctx, id)
	require.NoError(t, err)
	require.False(t, ok)
}
