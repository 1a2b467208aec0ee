package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/kvstore"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type record struct {
	Expires  int64           `json:"expires"`
	Data     json.RawMessage `json:"data,omitempty"`
	Password string          `json:"password"`
}

// Cache stores OTP records and attempt counters in a key-value store.
type Cache struct {
	store kvstore.Store
	ins   instrument.Instrumentation
}

func NewCache(store kvstore.Store, ins instrument.Instrumentation) *Cache {
	return &Cache{store: store, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("otp.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetRecord returns goerror.ErrNotFound when key holds nothing.
func (c *Cache) GetRecord(ctx context.Context, key string) (_ *entity.Record, err error) {
	ctx, span := c.startSpan(ctx, "GetRecord")
	defer func() { c.endSpan(span, err) }()

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var rec record
	if err = json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("cache: decode record %q: %w", key, err)
	}

	return &entity.Record{
		ExpiresAt:    rec.Expires,
		Data:         rec.Data,
		PasswordHash: rec.Password,
	}, nil
}

func (c *Cache) PutRecord(ctx context.Context, key string, rec entity.Record, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "PutRecord")
	defer func() { c.endSpan(span, err) }()

	raw, err := json.Marshal(record{
		Expires:  rec.ExpiresAt,
		Data:     rec.Data,
		Password: rec.PasswordHash,
	})
	if err != nil {
		return err
	}

	err = c.store.Put(ctx, key, raw, ttl)
	return err
}

// GetAttempt returns 0 when no counter is stored under key.
func (c *Cache) GetAttempt(ctx context.Context, key string) (_ int, err error) {
	ctx, span := c.startSpan(ctx, "GetAttempt")
	defer func() { c.endSpan(span, err) }()

	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("cache: decode attempt %q: %w", key, err)
	}
	return n, nil
}

func (c *Cache) PutAttempt(ctx context.Context, key string, attempt int, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "PutAttempt")
	defer func() { c.endSpan(span, err) }()

	err = c.store.Put(ctx, key, []byte(strconv.Itoa(attempt)), ttl)
	return err
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) (err error) {
	ctx, span := c.startSpan(ctx, "Delete")
	defer func() { c.endSpan(span, err) }()

	err = c.store.Delete(ctx, key)
	return err
}
