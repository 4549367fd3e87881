package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when RedisConfig.Key is empty.
const DefaultRedisKey = "docnet:snapshot"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string // host:port, e.g. "localhost:6379"
	Password string // optional
	DB       int    // database number
	Key      string // snapshot key (DefaultRedisKey if empty)
}

// Redis stores the snapshot under a single Redis key.
// Suited for ephemeral stores shared between short-lived processes.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}, nil
}

// Load reads the snapshot key.
func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return data, nil
}

// Store overwrites the snapshot key. Snapshots never expire.
func (r *Redis) Store(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error { return r.client.Close() }

// Ensure Redis implements Backend.
var _ Backend = (*Redis)(nil)
