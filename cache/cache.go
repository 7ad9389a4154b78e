// Package cache stores API responses for a limited time.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/etnz/inflation/config"
)

type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// keyPrefix namespaces the keys of this service in a shared redis.
const keyPrefix = "inflation:"

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(opt *redis.Options) *RedisStore {
	return &RedisStore{Client: redis.NewClient(opt)}
}

// New returns the redis store described by cfg, or nil if caching is disabled.
func New(cfg config.CacheConfig) *RedisStore {
	if !cfg.Enabled || cfg.Addr == "" {
		return nil
	}
	return NewRedisStore(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.Client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error { return s.Client.Ping(ctx).Err() }

func (s *RedisStore) Close() error { return s.Client.Close() }
