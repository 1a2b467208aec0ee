package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
)

type ForgetInput struct {
	Identifier string
}

// Forget drops the record of the identifier. The attempt counter is kept.
func (s *Usecase) Forget(ctx context.Context, in ForgetInput, opts ...entity.Option) (bool, error) {
	ctx, span := s.startSpan(ctx, "Forget")
	defer span.End()

	settings := s.settings.Apply(opts...)

	id, err := s.resolveIdentifier(ctx, in.Identifier)
	if err != nil {
		return false, err
	}

	if err := s.repoCache.Delete(ctx, settings.RecordKey(id)); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete record", "identifier", id, "error", err)
		return false, goerror.NewServer(err)
	}

	return true, nil
}

type ResetAttemptInput struct {
	Identifier string
}

// ResetAttempt drops the attempt counter of the identifier. The record is kept.
func (s *Usecase) ResetAttempt(ctx context.Context, in ResetAttemptInput, opts ...entity.Option) (bool, error) {
	ctx, span := s.startSpan(ctx, "ResetAttempt")
	defer span.End()

	settings := s.settings.Apply(opts...)

	id, err := s.resolveIdentifier(ctx, in.Identifier)
	if err != nil {
		return false, err
	}

	if err := s.repoCache.Delete(ctx, settings.AttemptKey(id)); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete attempt", "identifier", id, "error", err)
		return false, goerror.NewServer(err)
	}

	return true, nil
}
