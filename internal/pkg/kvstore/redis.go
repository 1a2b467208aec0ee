package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
)

// Redis implements Store on a go-redis client. The client is owned by the caller.
type Redis struct {
	client *redis.Client
}

// NewRedis returns a Redis-backed store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Put stores value under key with SET EX semantics.
func (r *Redis) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return val, nil
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
