package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpbite/internal/pkg/config"
)

// underMaintenance reports whether route matches one of the configured
// patterns. A pattern ending in "*" matches by prefix, so "/api/v1/otp/*"
// closes every OTP endpoint and "*" closes everything.
func underMaintenance(patterns []string, route string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(route, prefix) {
				return true
			}
			continue
		}
		if p == route {
			return true
		}
	}
	return false
}

// middlewareMaintenance reads the endpoint list on every request so a config
// reload takes effect without a restart.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if underMaintenance(cfg.GetArray("app.maintenance.endpoints"), routeOf(r)) {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
