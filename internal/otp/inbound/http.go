package inbound

import (
	"context"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/otp/usecase"
	"github.com/shandysiswandi/otpbite/internal/pkg/router"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
)

type uc interface {
	Generate(ctx context.Context, in usecase.GenerateInput, opts ...entity.Option) (*usecase.GenerateOutput, error)
	Validate(ctx context.Context, in usecase.ValidateInput, opts ...entity.Option) (*entity.Result, error)
	Forget(ctx context.Context, in usecase.ForgetInput, opts ...entity.Option) (bool, error)
	ResetAttempt(ctx context.Context, in usecase.ResetAttemptInput, opts ...entity.Option) (bool, error)
}

// RegisterHTTPEndpoint mounts the OTP endpoints. mws run after the router's
// own chain, typically the session middleware.
func RegisterHTTPEndpoint(r *router.Router, uc uc, tr validator.Translator, mws ...router.Middleware) {
	end := &HTTPEndpoint{uc: uc, tr: tr}

	r.POST("/api/v1/otp/generate", end.Generate, mws...)
	r.POST("/api/v1/otp/validate", end.Validate, mws...)
	r.POST("/api/v1/otp/forget", end.Forget, mws...)
	r.POST("/api/v1/otp/reset-attempt", end.ResetAttempt, mws...)

	// validation-rule adapter
	r.POST("/api/v1/otp/verify", end.Verify, mws...)
}
