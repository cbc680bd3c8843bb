package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
)

// Store is a byte-oriented key/value backend for cached results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Flush deletes every key under prefix and reports how many went.
	Flush(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
	Name() string
	Close() error
}

// MemoryStore keeps results in a bounded in-process LRU.
type MemoryStore struct {
	lru *lru.Cache[string, []byte]
}

const defaultMemorySize = 1024

func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = defaultMemorySize
	}
	c, _ := lru.New[string, []byte](size)
	return &MemoryStore{lru: c}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

func (m *MemoryStore) Flush(_ context.Context, _ string) (int64, error) {
	n := int64(m.lru.Len())
	m.lru.Purge()
	return n, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() error { return nil }

// RedisStore keeps results in Redis with a fixed TTL, so several search
// processes over the same corpus can share them.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a PING.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w: %w", cfg.Addr, apperrors.ErrCacheUnavailable, err)
	}
	return &RedisStore{rdb: rdb, ttl: cfg.CacheTTL}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, key, value, r.ttl).Err()
}

// Flush scans for keys under prefix and deletes them one batch at a time.
func (r *RedisStore) Flush(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	iter := r.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := r.rdb.Del(ctx, batch...).Result()
			if err != nil {
				return deleted, fmt.Errorf("deleting keys: %w", err)
			}
			deleted += n
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning prefix %s: %w", prefix, err)
	}
	if len(batch) > 0 {
		n, err := r.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return deleted, fmt.Errorf("deleting keys: %w", err)
		}
		deleted += n
	}
	return deleted, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
