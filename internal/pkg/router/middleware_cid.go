package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is echoed on every response and attached to logs as _cID.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as an inbound fallback.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// incomingCID returns the first usable caller supplied id. Values with line
// breaks are dropped to keep them out of log lines and response headers.
func incomingCID(h http.Header) string {
	for _, name := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := strings.TrimSpace(h.Get(name))
		if v == "" || strings.ContainsAny(v, "\r\n") {
			continue
		}
		return v[:min(len(v), maxCorrelationIDLen)]
	}
	return ""
}

func middlewareCorrelationID(ids uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := incomingCID(r.Header)
			if cid == "" && ids != nil {
				cid = ids.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), cid)))
		})
	}
}
