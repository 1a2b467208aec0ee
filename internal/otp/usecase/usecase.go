package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbite/internal/pkg/hash"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/lock"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const validationLockTTL = 10 * time.Second

type repoCache interface {
	GetRecord(ctx context.Context, key string) (*entity.Record, error)
	PutRecord(ctx context.Context, key string, rec entity.Record, ttl time.Duration) error
	GetAttempt(ctx context.Context, key string) (int, error)
	PutAttempt(ctx context.Context, key string, attempt int, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type identifierSource interface {
	Identifier(ctx context.Context) (string, error)
}

type Usecase struct {
	repoCache   repoCache
	identifiers identifierSource
	generator   otp.Generator
	hash        hash.Hash
	locker      lock.Locker
	validator   validator.Validator
	clock       clock.Clocker
	ins         instrument.Instrumentation
	settings    entity.Settings

	generated metric.Int64Counter
	outcomes  metric.Int64Counter
}

type Dependency struct {
	RepoCache   repoCache
	Identifiers identifierSource
	Generator   otp.Generator
	Hash        hash.Hash
	// Locker serializes Validate per identifier. Nil disables it.
	Locker     lock.Locker
	Validator  validator.Validator
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Settings   entity.Settings
}

func New(dep Dependency) *Usecase {
	uc := &Usecase{
		repoCache:   dep.RepoCache,
		identifiers: dep.Identifiers,
		generator:   dep.Generator,
		hash:        dep.Hash,
		locker:      dep.Locker,
		validator:   dep.Validator,
		clock:       dep.Clock,
		ins:         dep.Instrument,
		settings:    dep.Settings.Apply(),
	}

	meter := dep.Instrument.Meter("otp.usecase")

	var err error
	uc.generated, err = meter.Int64Counter("otp.generate.total", metric.WithDescription("Number of passwords issued"))
	if err != nil {
		slog.Error("failed to create otp generate counter", "error", err)
	}
	uc.outcomes, err = meter.Int64Counter("otp.validate.outcomes", metric.WithDescription("Validation outcomes by result"))
	if err != nil {
		slog.Error("failed to create otp outcome counter", "error", err)
	}

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

// resolveIdentifier falls back to the identifier source when id is empty.
func (s *Usecase) resolveIdentifier(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}

	if s.identifiers != nil {
		sid, err := s.identifiers.Identifier(ctx)
		if err == nil && sid != "" {
			return sid, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "no fallback identifier available", "error", err)
		}
	}

	return "", goerror.NewInvalidInput(fmt.Errorf("%w: no identifier", entity.ErrInvalidArgument))
}

func (s *Usecase) recordOutcome(ctx context.Context, outcome string) {
	if s.outcomes != nil {
		s.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
