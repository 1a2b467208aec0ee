package inbound

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/otp/usecase"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
)

type validateUC interface {
	Validate(ctx context.Context, in usecase.ValidateInput, opts ...entity.Option) (*entity.Result, error)
}

// Rule plugs Validate into field validation. A Rule is single use: it keeps
// the outcome of the last Passes call for Message.
type Rule struct {
	uc         validateUC
	tr         validator.Translator
	identifier string
	opts       []entity.Option

	attribute string
	code      entity.ErrorCode
	err       error
}

// NewRule builds a rule checking passwords issued for identifier. An empty
// identifier means the session identifier.
func NewRule(uc validateUC, tr validator.Translator, identifier string, opts ...entity.Option) *Rule {
	return &Rule{uc: uc, tr: tr, identifier: identifier, opts: opts}
}

// Passes reports whether value is the current password.
func (r *Rule) Passes(ctx context.Context, attribute, value string) bool {
	r.attribute = attribute
	r.code, r.err = "", nil

	in := usecase.ValidateInput{Identifier: r.identifier, Password: value, PasswordSet: true}
	res, err := r.uc.Validate(ctx, in, r.opts...)
	if err != nil {
		slog.WarnContext(ctx, "otp rule could not validate", "attribute", attribute, "error", err)
		r.err = err
		r.code = entity.ErrorCodeInvalid
		return false
	}

	r.code = res.Error
	return res.Status
}

// Err returns the error of the last Passes call, if validation itself failed.
func (r *Rule) Err() error {
	return r.err
}

// Message renders the rejection reason of the last Passes call.
func (r *Rule) Message() string {
	switch r.code {
	case entity.ErrorCodeExpired:
		return r.tr.Translate(validator.MessageOTPExpired, r.attribute)
	case entity.ErrorCodeMaxAttempt:
		return r.tr.Translate(validator.MessageOTPMaxAttempt, r.attribute)
	default:
		return r.tr.Translate(validator.MessageOTPInvalid, r.attribute)
	}
}
