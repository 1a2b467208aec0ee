package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
)

const (
	// DriverRedis selects the Redis backend.
	DriverRedis = "redis"
	// DriverDynamoDB selects the DynamoDB backend.
	DriverDynamoDB = "dynamodb"
	// DriverMemory selects the in-process backend.
	DriverMemory = "memory"
)

var (
	// ErrUnknownDriver indicates an unsupported store driver.
	ErrUnknownDriver = errors.New("kvstore: unknown driver")
	// ErrMissingClient indicates the selected driver was not given a client.
	ErrMissingClient = errors.New("kvstore: missing client")
)

// Store is a key-value store with per-key expiry.
type Store interface {
	// Put stores value under key. A ttl <= 0 keeps the key until deleted.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value stored under key or goerror.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// FactoryOptions groups configuration for store drivers.
type FactoryOptions struct {
	// Redis is the client used by the redis driver.
	Redis *redis.Client
	// DynamoDB configures the dynamodb driver.
	DynamoDB DynamoDBOptions
	// Clock drives expiry for the memory and dynamodb drivers.
	Clock clock.Clocker
}

// NewFromDriver constructs a Store implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Store, error) {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("%w: redis", ErrMissingClient)
		}
		return NewRedis(opts.Redis), nil
	case DriverDynamoDB:
		if opts.DynamoDB.Client == nil {
			return nil, fmt.Errorf("%w: dynamodb", ErrMissingClient)
		}
		return NewDynamoDB(opts.DynamoDB, opts.Clock), nil
	case DriverMemory:
		return NewMemory(opts.Clock), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
