package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
)

// maxBodyBytes bounds decoded request bodies. OTP payloads are tiny; the
// largest field is the opaque data attached on generate.
const maxBodyBytes = 64 * 1024

// Request is what a Handler receives.
type Request struct {
	*http.Request
}

// DecodeBody decodes a single JSON object into dst. Unknown fields, trailing
// data and bodies above maxBodyBytes are rejected as invalid format.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat("Request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes+1))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return goerror.NewInvalidFormat("Request body is too large or truncated")
		}
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
