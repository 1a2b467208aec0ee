package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/uid"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func runLockerContract(t *testing.T, l Locker, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	// Arrange + Act
	release, err := l.Acquire(ctx, "otp:abc", time.Second)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	// Assert
	if _, err := l.Acquire(ctx, "otp:abc", time.Second); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("second Acquire() error = %v, want ErrNotAcquired", err)
	}
	if rel, err := l.Acquire(ctx, "otp:other", time.Second); err != nil {
		t.Fatalf("other key Acquire() error = %v", err)
	} else if err := rel(ctx); err != nil {
		t.Fatalf("release other: %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release() error = %v", err)
	}
	again, err := l.Acquire(ctx, "otp:abc", time.Second)
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}

	advance(2 * time.Second)
	stolen, err := l.Acquire(ctx, "otp:abc", time.Second)
	if err != nil {
		t.Fatalf("Acquire() after expiry error = %v", err)
	}
	if err := again(ctx); err != nil {
		t.Fatalf("stale release() error = %v", err)
	}
	if _, err := l.Acquire(ctx, "otp:abc", time.Second); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("stale release dropped the new lease, err = %v", err)
	}
	_ = stolen(ctx)
}

func TestMemory(t *testing.T) {
	clk := clock.NewFrozen(time.Unix(1_700_000_000, 0))
	runLockerContract(t, NewMemory(clk), clk.Advance)
}

func TestRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	runLockerContract(t, NewRedis(client, uid.NewUUID()), func(d time.Duration) { time.Sleep(d) })
}
