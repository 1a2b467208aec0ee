package inbound

import (
	"encoding/json"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
)

type GenerateRequest struct {
	Identifier string          `json:"identifier"`
	Format     string          `json:"format"`
	Customize  string          `json:"customize"`
	Length     []int           `json:"length"`
	Separator  string          `json:"separator"`
	Sensitive  *bool           `json:"sensitive"`
	Expires    *int            `json:"expires"`
	Data       json.RawMessage `json:"data"`
}

func (req GenerateRequest) options() []entity.Option {
	var opts []entity.Option
	// customize alone switches the format; an explicit format still wins.
	if req.Customize != "" {
		opts = append(opts, entity.WithCustomize(req.Customize))
	}
	if req.Format != "" {
		opts = append(opts, entity.WithFormat(otp.Format(req.Format)))
	}
	if len(req.Length) > 0 {
		opts = append(opts, entity.WithLength(req.Length...))
	}
	if req.Separator != "" {
		opts = append(opts, entity.WithSeparator(req.Separator))
	}
	if req.Sensitive != nil {
		opts = append(opts, entity.WithSensitive(*req.Sensitive))
	}
	if req.Expires != nil {
		opts = append(opts, entity.WithExpires(*req.Expires))
	}
	if len(req.Data) > 0 {
		opts = append(opts, entity.WithData(req.Data))
	}
	return opts
}

type GenerateResponse struct {
	Password  string `json:"password"`
	ExpiresAt int64  `json:"expires_at"`
}

func (GenerateResponse) Message() string {
	return "One-time password has been generated"
}

type ValidateRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Attempts   *int   `json:"attempts"`
	Sensitive  *bool  `json:"sensitive"`
	Skip       *bool  `json:"skip"`
	Disposable *bool  `json:"disposable"`
}

func (req ValidateRequest) options() []entity.Option {
	var opts []entity.Option
	if req.Attempts != nil {
		opts = append(opts, entity.WithAttempts(*req.Attempts))
	}
	if req.Sensitive != nil {
		opts = append(opts, entity.WithSensitive(*req.Sensitive))
	}
	if req.Skip != nil {
		opts = append(opts, entity.WithSkip(*req.Skip))
	}
	if req.Disposable != nil {
		opts = append(opts, entity.WithDisposable(*req.Disposable))
	}
	return opts
}

type ValidateResponse struct {
	Status bool            `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Demo   bool            `json:"demo,omitempty"`
}

func (resp ValidateResponse) Message() string {
	if resp.Status {
		return "One-time password is valid"
	}
	return "One-time password is rejected"
}

type IdentifierRequest struct {
	Identifier string `json:"identifier"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type VerifyRequest struct {
	Code string `json:"code"`
}

type VerifyResponse struct{}

func (VerifyResponse) Message() string {
	return "Code has been verified"
}
