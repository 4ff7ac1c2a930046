package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	latestKey        = "digest:latest"
	archiveKeyPrefix = "digest:archive:"
)

// RedisStore keeps snapshots as JSON strings under digest:latest and
// digest:archive:<date> keys.
type RedisStore struct {
	client *redis.Client
}

var _ ports.SnapshotStore = (*RedisStore)(nil)

// NewRedisStore parses a redis:// URL and connects a client.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// LoadLatest reads the current snapshot, or ErrNoSnapshot if the key is absent.
func (s *RedisStore) LoadLatest(ctx context.Context) (domain.DigestSnapshot, error) {
	raw, err := s.client.Get(ctx, latestKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DigestSnapshot{}, ports.ErrNoSnapshot
	}
	if err != nil {
		return domain.DigestSnapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}

	var snapshot domain.DigestSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.DigestSnapshot{}, fmt.Errorf("decode latest snapshot: %w", err)
	}
	return snapshot, nil
}

// SaveLatest overwrites the current snapshot.
func (s *RedisStore) SaveLatest(ctx context.Context, snapshot domain.DigestSnapshot) error {
	return s.set(ctx, latestKey, snapshot)
}

// Archive writes the snapshot under its generation date.
func (s *RedisStore) Archive(ctx context.Context, snapshot domain.DigestSnapshot) error {
	key := archiveKeyPrefix + snapshot.GeneratedAt.UTC().Format(archiveDate)
	return s.set(ctx, key, snapshot)
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) set(ctx context.Context, key string, snapshot domain.DigestSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
