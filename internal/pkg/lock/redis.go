package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpbite/internal/pkg/uid"
)

const keyPrefix = "lock:"

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker backed by SET NX PX.
type Redis struct {
	client *redis.Client
	tokens uid.StringID
}

// NewRedis returns a Redis locker. tokens identifies each holder.
func NewRedis(client *redis.Client, tokens uid.StringID) *Redis {
	return &Redis{client: client, tokens: tokens}
}

// Acquire implements Locker.
func (l *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	fk := keyPrefix + key
	token := l.tokens.Generate()

	acquired, err := l.client.SetNX(ctx, fk, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrNotAcquired
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{fk}, token).Err()
	}, nil
}
