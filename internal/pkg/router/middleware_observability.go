package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpbite/internal/pkg/config"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// bodyLogLimit caps how much of a request or response body ends up in logs.
const bodyLogLimit = 8 * 1024

// sensitiveHeaders are masked in logs regardless of configuration; they
// carry the session that identifies the OTP owner.
var sensitiveHeaders = []string{"cookie", "set-cookie", "authorization"}

// capture wraps the ResponseWriter to observe status, size and a bounded
// copy of the body. The handler error is attached through SetError.
type capture struct {
	http.ResponseWriter
	status    int
	written   int
	body      bytes.Buffer
	truncated bool
	err       error
}

func (c *capture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *capture) Write(p []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}

	if room := bodyLogLimit - c.body.Len(); room < len(p) {
		c.truncated = true
		c.body.Write(p[:max(room, 0)])
	} else {
		c.body.Write(p)
	}

	n, err := c.ResponseWriter.Write(p)
	c.written += n
	return n, err
}

func (c *capture) SetError(err error) { c.err = err }

func (c *capture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func routeOf(r *http.Request) string {
	if p := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); p != "" {
		return p
	}
	return r.URL.Path
}

// peekBody reads up to bodyLogLimit bytes and restores r.Body so the handler
// still sees the full stream.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, bodyLogLimit))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(head), r.Body))
	return head
}

// loggableBody decodes JSON bodies so masked fields (password, code, ...)
// never reach the log sink in clear text.
func loggableBody(body []byte, truncated bool, maskKeys map[string]struct{}) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return instrument.MaskData(decoded, maskKeys)
	}
	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	// Non JSON text may still contain a secret; only its size is logged.
	if len(maskKeys) > 0 {
		return map[string]any{"bytes": len(body), "truncated": truncated}
	}
	return string(body)
}

func loggableHeaders(h http.Header, maskKeys map[string]struct{}) http.Header {
	out := h.Clone()
	for key := range out {
		lower := strings.ToLower(key)
		if _, ok := maskKeys[lower]; ok {
			out.Set(key, instrument.MaskedValue)
			continue
		}
		for _, s := range sensitiveHeaders {
			if lower == s {
				out.Set(key, instrument.MaskedValue)
			}
		}
	}
	return out
}

func maskKeysFrom(cfg config.Config) map[string]struct{} {
	if cfg == nil {
		return map[string]struct{}{}
	}
	return instrument.MaskKeys(cfg.GetArray("instrument.log_mask_fields"))
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	maskKeys := maskKeysFrom(cfg)
	tracer := ins.Tracer("http.server")
	meter := ins.Meter("http.server")

	requests, err := meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	latency, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration in milliseconds"), metric.WithUnit("ms"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeOf(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.NetworkProtocolVersionKey.String(r.Proto),
					semconv.ServerAddressKey.String(r.Host),
					attribute.String("http.user_agent", r.UserAgent()),
				),
			)
			defer span.End()

			reqBody := peekBody(r)
			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"headers", loggableHeaders(r.Header, maskKeys),
				"body", loggableBody(reqBody, len(reqBody) == bodyLogLimit, maskKeys),
			)

			c := &capture{ResponseWriter: w}
			next.ServeHTTP(c, r.WithContext(ctx))

			status := c.statusCode()
			elapsed := time.Since(start)
			attrs := metric.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			)

			span.SetAttributes(
				semconv.HTTPResponseStatusCodeKey.Int(status),
				attribute.Int("http.response_content_length", c.written),
			)
			switch {
			case status >= http.StatusInternalServerError && c.err != nil:
				span.RecordError(c.err)
				span.SetStatus(codes.Error, c.err.Error())
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}

			if requests != nil {
				requests.Add(ctx, 1, attrs)
			}
			if latency != nil {
				latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "response sent",
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", c.written,
				"latency_ms", elapsed.Milliseconds(),
				"body", loggableBody(c.body.Bytes(), c.truncated, maskKeys),
			)
		})
	}
}
