package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
	"github.com/redis/go-redis/v9"
)

// ErrCheckpointNotFound is returned when no snapshot exists for a session.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

const checkpointKeyPrefix = "exam:session:"

// RedisCheckpointStore persists session snapshots in Redis. It backs the
// periodic autosave that lets a disconnected student resume instead of
// depending on a best-effort unload handler.
type RedisCheckpointStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCheckpointStore(client *redis.Client, logger *slog.Logger) *RedisCheckpointStore {
	return &RedisCheckpointStore{
		client: client,
		logger: logger,
	}
}

func (s *RedisCheckpointStore) Save(ctx context.Context, snap *session.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, checkpointKey(snap.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (s *RedisCheckpointStore) Load(ctx context.Context, sessionID string) (*session.Snapshot, error) {
	data, err := s.client.Get(ctx, checkpointKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisCheckpointStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, checkpointKey(sessionID)).Err()
}

func checkpointKey(sessionID string) string {
	return checkpointKeyPrefix + sessionID
}
