package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/kvstore"
)

func newCache(t *testing.T) (*Cache, kvstore.Store, *clock.Frozen) {
	t.Helper()
	clk := clock.NewFrozen(time.Unix(1_700_000_000, 0))
	store := kvstore.NewMemory(clk)
	return NewCache(store, instrument.NewNoop()), store, clk
}

func TestCache_Record(t *testing.T) {
	// Arrange
	c, store, clk := newCache(t)
	ctx := context.Background()
	want := entity.Record{ExpiresAt: 1_700_000_900, Data: json.RawMessage(`{"user":7}`), PasswordHash: "hash"}

	// Act
	if err := c.PutRecord(ctx, "OTPPX_abc", want, 45*time.Minute); err != nil {
		t.Fatalf("PutRecord() error = %v", err)
	}
	got, err := c.GetRecord(ctx, "OTPPX_abc")

	// Assert
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if got.ExpiresAt != want.ExpiresAt || got.PasswordHash != want.PasswordHash || string(got.Data) != string(want.Data) {
		t.Fatalf("GetRecord() = %+v, want %+v", got, want)
	}

	raw, _ := store.Get(ctx, "OTPPX_abc")
	if string(raw) != `{"expires":1700000900,"data":{"user":7},"password":"hash"}` {
		t.Fatalf("stored value = %s", raw)
	}

	clk.Advance(45 * time.Minute)
	if _, err := c.GetRecord(ctx, "OTPPX_abc"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("GetRecord() after ttl error = %v, want ErrNotFound", err)
	}
}

func TestCache_Attempt(t *testing.T) {
	c, store, _ := newCache(t)
	ctx := context.Background()

	n, err := c.GetAttempt(ctx, "OTPPX__attempt_abc")
	if err != nil || n != 0 {
		t.Fatalf("GetAttempt() on empty = %d, %v", n, err)
	}

	if err := c.PutAttempt(ctx, "OTPPX__attempt_abc", 3, time.Minute); err != nil {
		t.Fatalf("PutAttempt() error = %v", err)
	}
	if n, err := c.GetAttempt(ctx, "OTPPX__attempt_abc"); err != nil || n != 3 {
		t.Fatalf("GetAttempt() = %d, %v", n, err)
	}

	if err := c.Delete(ctx, "OTPPX__attempt_abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.Delete(ctx, "OTPPX__attempt_abc"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}

	_ = store.Put(ctx, "corrupt", []byte("x"), time.Minute)
	if _, err := c.GetAttempt(ctx, "corrupt"); err == nil {
		t.Fatal("GetAttempt() accepted a non-numeric counter")
	}
	if _, err := c.GetRecord(ctx, "corrupt"); err == nil {
		t.Fatal("GetRecord() accepted a non-json record")
	}
}
