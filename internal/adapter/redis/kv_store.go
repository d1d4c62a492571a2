package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/pscheid92/mcmotd/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// KVStore is the Redis-backed key-value store holding the site configuration
// and the admin credentials. Values are plain strings without expiry.
type KVStore struct {
	rdb *goredis.Client
}

var _ domain.KeyValueStore = (*KVStore)(nil)

func NewKVStore(rdb *goredis.Client) *KVStore {
	return &KVStore{rdb: rdb}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	written, err := s.rdb.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return written, nil
}

// Ping backs the readiness check.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
