package inbound

import (
	"github.com/shandysiswandi/otpbite/internal/otp/usecase"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbite/internal/pkg/router"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
)

// HTTPEndpoint exposes the OTP engine over HTTP.
type HTTPEndpoint struct {
	uc uc
	tr validator.Translator
}

// Generate issues a password. The identifier defaults to the session id.
func (h *HTTPEndpoint) Generate(r *router.Request) (any, error) {
	var req GenerateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Generate(r.Context(), usecase.GenerateInput{Identifier: req.Identifier}, req.options()...)
	if err != nil {
		return nil, err
	}

	return GenerateResponse{Password: resp.Password, ExpiresAt: resp.ExpiresAt.Unix()}, nil
}

// Validate answers 200 for both accepted and rejected passwords.
func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	var req ValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	res, err := h.uc.Validate(r.Context(), usecase.ValidateInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	}, req.options()...)
	if err != nil {
		return nil, err
	}

	return ValidateResponse{
		Status: res.Status,
		Error:  res.Error.String(),
		Data:   res.Data,
		Demo:   res.Demo,
	}, nil
}

func (h *HTTPEndpoint) Forget(r *router.Request) (any, error) {
	var req IdentifierRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ok, err := h.uc.Forget(r.Context(), usecase.ForgetInput{Identifier: req.Identifier})
	if err != nil {
		return nil, err
	}

	return SuccessResponse{Success: ok}, nil
}

func (h *HTTPEndpoint) ResetAttempt(r *router.Request) (any, error) {
	var req IdentifierRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ok, err := h.uc.ResetAttempt(r.Context(), usecase.ResetAttemptInput{Identifier: req.Identifier})
	if err != nil {
		return nil, err
	}

	return SuccessResponse{Success: ok}, nil
}

// Verify checks the "code" field of a form against the session password.
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	rule := NewRule(h.uc, h.tr, "")
	if !rule.Passes(r.Context(), "code", req.Code) {
		if err := rule.Err(); err != nil {
			return nil, err
		}
		return nil, goerror.NewInvalidInput(nil, "code", rule.Message())
	}

	return VerifyResponse{}, nil
}
