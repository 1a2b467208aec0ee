package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type GenerateInput struct {
	Identifier string
}

type GenerateOutput struct {
	Password  string
	ExpiresAt time.Time
}

// Generate issues a password for the identifier, replacing any earlier one.
func (s *Usecase) Generate(ctx context.Context, in GenerateInput, opts ...entity.Option) (*GenerateOutput, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	settings := s.settings.Apply(opts...)
	if err := s.validator.Validate(settings); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	id, err := s.resolveIdentifier(ctx, in.Identifier)
	if err != nil {
		return nil, err
	}

	password, err := s.generator.Generate(settings.Shape())
	if errors.Is(err, otp.ErrGeneration) {
		slog.WarnContext(ctx, "failed to generate password", "identifier", id, "format", settings.Format, "error", err)
		return nil, goerror.NewInvalidInput(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate password", "identifier", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	password = settings.Normalize(password)

	hashed, err := s.hash.Hash(password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "identifier", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	expiresAt := s.clock.Now().Add(settings.ExpiresIn())
	rec := entity.Record{
		ExpiresAt:    expiresAt.Unix(),
		Data:         settings.Data,
		PasswordHash: string(hashed),
	}
	if err := s.repoCache.PutRecord(ctx, settings.RecordKey(id), rec, settings.StoreTTL()); err != nil {
		slog.ErrorContext(ctx, "failed to repo put record", "identifier", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.generated != nil {
		s.generated.Add(ctx, 1, metric.WithAttributes(attribute.String("format", string(settings.Format))))
	}
	slog.DebugContext(ctx, "password issued", "identifier", id, "length", settings.PasswordLength(), "expires_at", rec.ExpiresAt)

	return &GenerateOutput{Password: password, ExpiresAt: time.Unix(rec.ExpiresAt, 0)}, nil
}
