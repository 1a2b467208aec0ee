package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpbite/internal/pkg/config"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type messageResp struct {
	Value string `json:"value"`
}

func (messageResp) Message() string { return "done" }

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRouter_Success(t *testing.T) {
	// Arrange
	r := NewRouter(Config{UUID: fixedID("cid-1")})
	r.POST("/echo", func(req *Request) (any, error) {
		var in messageResp
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return in, nil
	})
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"value":"x"}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid-1" {
		t.Fatalf("correlation id = %q", got)
	}
	body := decode(t, rec)
	if body["message"] != "done" {
		t.Fatalf("message = %v", body["message"])
	}
	if data, _ := body["data"].(map[string]any); data["value"] != "x" {
		t.Fatalf("data = %v", body["data"])
	}
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantField  string
	}{
		{name: "unknown field", body: `{"other":1}`, wantStatus: http.StatusBadRequest},
		{name: "trailing data", body: `{"value":"x"}{}`, wantStatus: http.StatusBadRequest},
		{name: "fields", body: `{}`, err: goerror.NewInvalidInput(nil, "code", "bad"), wantStatus: http.StatusUnprocessableEntity, wantField: "code"},
		{name: "business", body: `{}`, err: goerror.NewBusiness("busy", goerror.CodeTooManyRequest), wantStatus: http.StatusTooManyRequests},
		{name: "plain", body: `{}`, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(Config{})
			r.POST("/x", func(req *Request) (any, error) {
				var in messageResp
				if err := req.DecodeBody(&in); err != nil {
					return nil, err
				}
				return nil, tt.err
			})
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantField != "" {
				fields, _ := decode(t, rec)["error"].(map[string]any)
				if _, ok := fields[tt.wantField]; !ok {
					t.Fatalf("error fields = %v", fields)
				}
			}
		})
	}
}

func TestRouter_NoContentAndPanic(t *testing.T) {
	r := NewRouter(Config{})
	r.GET("/empty", func(*Request) (any, error) { return nil, nil })
	r.GET("/panic", func(*Request) (any, error) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/empty", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("empty status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d", rec.Code)
	}
}

func TestRouter_Maintenance(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: /down\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	r := NewRouter(Config{Config: cfg})
	r.GET("/down", func(*Request) (any, error) { return messageResp{}, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/down", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,h" {
		t.Fatalf("order = %v", order)
	}
}

func TestInternalFrames(t *testing.T) {
	stack := []byte("goroutine 1 [running]:\nmain.fn()\n\t/src/app/internal/otp/usecase/validate.go:42 +0x1d\n\t/usr/lib/go/src/net/http/server.go:10 +0x2\n")

	got := internalFrames(stack)

	if len(got) != 1 || got[0] != "internal/otp/usecase/validate.go:42" {
		t.Fatalf("internalFrames() = %v", got)
	}
}

func TestUnderMaintenance(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		route    string
		want     bool
	}{
		{name: "exact", patterns: []string{"/api/v1/otp/generate"}, route: "/api/v1/otp/generate", want: true},
		{name: "prefix", patterns: []string{"/api/v1/otp/*"}, route: "/api/v1/otp/validate", want: true},
		{name: "everything", patterns: []string{"*"}, route: "/", want: true},
		{name: "other route", patterns: []string{"/api/v1/otp/generate"}, route: "/api/v1/otp/validate", want: false},
		{name: "empty", patterns: nil, route: "/", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := underMaintenance(tt.patterns, tt.route); got != tt.want {
				t.Fatalf("underMaintenance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "true client ip first", headers: map[string]string{"True-Client-IP": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, remote: "9.9.9.9:1", want: "1.1.1.1"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "3.3.3.3, 10.0.0.1"}, remote: "9.9.9.9:1", want: "3.3.3.3"},
		{name: "garbage header falls back", headers: map[string]string{"X-Real-IP": "nope"}, remote: "9.9.9.9:1", want: "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			// Act
			got, ok := clientIP(req)

			// Assert
			if !ok || got.String() != tt.want {
				t.Fatalf("clientIP() = %v, %v, want %s", got, ok, tt.want)
			}
		})
	}
}

func TestIncomingCID(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderCorrelationID, "bad\nvalue")
	h.Set(HeaderRequestID, strings.Repeat("x", 200))

	got := incomingCID(h)

	if len(got) != maxCorrelationIDLen {
		t.Fatalf("len(incomingCID()) = %d", len(got))
	}
}
