package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbite/internal/pkg/lock"
)

type ValidateInput struct {
	Identifier string
	// Password is the submitted code. When only Identifier is set it is
	// taken as the password and the identifier comes from the fallback source.
	Password string
	// PasswordSet marks Password as supplied even when empty. An empty
	// supplied password is a counted rejection, not a single argument call.
	PasswordSet bool
}

// Validate checks a submitted password. Rejections are reported in the
// Result; errors are reserved for bad arguments and collaborator failures.
func (s *Usecase) Validate(ctx context.Context, in ValidateInput, opts ...entity.Option) (*entity.Result, error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	settings := s.settings.Apply(opts...)
	if err := s.validator.Validate(settings); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	id, password := in.Identifier, in.Password
	if !in.PasswordSet && password == "" {
		id, password = "", id
		if password == "" {
			return nil, goerror.NewInvalidInput(entity.ErrInvalidArgument)
		}
	}

	if settings.IsDemoPassword(password) {
		s.recordOutcome(ctx, "demo")
		return &entity.Result{Status: true, Demo: true}, nil
	}

	id, err := s.resolveIdentifier(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, settings.AttemptKey(id), validationLockTTL)
		if errors.Is(err, lock.ErrNotAcquired) {
			slog.WarnContext(ctx, "concurrent validation rejected", "identifier", id)
			return nil, goerror.NewBusiness("Another validation is in progress", goerror.CodeTooManyRequest)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to acquire validation lock", "identifier", id, "error", err)
			return nil, goerror.NewServer(err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				slog.WarnContext(ctx, "failed to release validation lock", "identifier", id, "error", err)
			}
		}()
	}

	return s.validate(ctx, settings, id, password)
}

func (s *Usecase) validate(ctx context.Context, settings entity.Settings, id, password string) (*entity.Result, error) {
	attemptKey := settings.AttemptKey(id)

	attempt, err := s.repoCache.GetAttempt(ctx, attemptKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get attempt", "identifier", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	if attempt >= settings.Attempts {
		return s.reject(ctx, id, entity.ErrorCodeMaxAttempt), nil
	}

	reject := func(code entity.ErrorCode) (*entity.Result, error) {
		if err := s.repoCache.PutAttempt(ctx, attemptKey, attempt+1, settings.StoreTTL()); err != nil {
			slog.ErrorContext(ctx, "failed to repo put attempt", "identifier", id, "error", err)
			return nil, goerror.NewServer(err)
		}
		return s.reject(ctx, id, code), nil
	}

	rec, err := s.repoCache.GetRecord(ctx, settings.RecordKey(id))
	if errors.Is(err, goerror.ErrNotFound) {
		return reject(entity.ErrorCodeInvalid)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get record", "identifier", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	password = settings.Normalize(password)

	if s.clock.Now().Unix() > rec.ExpiresAt {
		return reject(entity.ErrorCodeExpired)
	}

	if !s.hash.Verify(rec.PasswordHash, password) {
		return reject(entity.ErrorCodeInvalid)
	}

	result := &entity.Result{Status: true}
	if rec.HasData() {
		result.Data = rec.Data
	}

	if !settings.Skip {
		if err := s.repoCache.Delete(ctx, settings.RecordKey(id)); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete record", "identifier", id, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	if err := s.repoCache.Delete(ctx, attemptKey); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete attempt", "identifier", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.recordOutcome(ctx, "valid")
	return result, nil
}

func (s *Usecase) reject(ctx context.Context, id string, code entity.ErrorCode) *entity.Result {
	slog.WarnContext(ctx, "password rejected", "identifier", id, "reason", code.String())
	s.recordOutcome(ctx, code.String())
	return entity.Rejected(code)
}
