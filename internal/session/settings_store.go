package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// SettingsStore keeps the view configuration of sessions so a session can
// be rebuilt after it was evicted from memory.
type SettingsStore interface {
	Save(ctx context.Context, sessionID string, settings table.Settings) error
	// Load returns ok=false when nothing is stored for the session.
	Load(ctx context.Context, sessionID string) (settings table.Settings, ok bool, err error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSettingsStore stores settings as JSON under prefix+sessionID with a
// sliding TTL.
type RedisSettingsStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSettingsStore builds a store on an existing client.
func NewRedisSettingsStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSettingsStore {
	return &RedisSettingsStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSettingsStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save writes the settings and refreshes their expiry.
func (s *RedisSettingsStore) Save(ctx context.Context, sessionID string, settings table.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode session settings: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session settings: %w", err)
	}
	return nil
}

// Load reads the settings of a session.
func (s *RedisSettingsStore) Load(ctx context.Context, sessionID string) (table.Settings, bool, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return table.Settings{}, false, nil
	}
	if err != nil {
		return table.Settings{}, false, fmt.Errorf("load session settings: %w", err)
	}
	var settings table.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return table.Settings{}, false, fmt.Errorf("decode session settings: %w", err)
	}
	return settings, true, nil
}

// Delete forgets a session.
func (s *RedisSettingsStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
