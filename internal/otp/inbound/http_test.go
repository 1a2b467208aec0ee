package inbound

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/otp/outbound/cache"
	"github.com/shandysiswandi/otpbite/internal/otp/usecase"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/hash"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
	"github.com/shandysiswandi/otpbite/internal/pkg/router"
	"github.com/shandysiswandi/otpbite/internal/pkg/session"
	"github.com/shandysiswandi/otpbite/internal/pkg/uid"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (c *client) post(path, body string) (int, envelope) {
	c.t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	if cks := rec.Result().Cookies(); len(cks) > 0 {
		c.cookies = cks
	}

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("decode %s response %q: %v", path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func newClient(t *testing.T, settings entity.Settings) *client {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}
	clk := clock.NewFrozen(time.Unix(1_700_000_000, 0))
	ins := instrument.NewNoop()

	uc := usecase.New(usecase.Dependency{
		RepoCache:   cache.NewCache(kvstore.NewMemory(clk), ins),
		Identifiers: session.Source{},
		Generator:   otp.NewRandom(),
		Hash:        hash.NewBcrypt(bcrypt.MinCost, ""),
		Validator:   v,
		Clock:       clk,
		Instrument:  ins,
		Settings:    settings,
	})

	sessions := session.NewManager(
		session.NewCookieStore(session.Config{Secret: []byte("0123456789abcdef0123456789abcdef"), MaxAge: 3600}),
		"otp_session",
		uid.NewUUID(),
	)

	r := router.NewRouter(router.Config{Instrument: ins})
	RegisterHTTPEndpoint(r, uc, v, sessions.Middleware)

	return &client{t: t, handler: r}
}

func TestHTTP_SessionFlow(t *testing.T) {
	// Arrange
	c := newClient(t, entity.DefaultSettings())

	// Act
	code, env := c.post("/api/v1/otp/generate", `{"length":[3,3],"data":{"order":42}}`)

	// Assert
	if code != http.StatusOK {
		t.Fatalf("generate status = %d body = %+v", code, env)
	}
	var gen GenerateResponse
	if err := json.Unmarshal(env.Data, &gen); err != nil {
		t.Fatalf("decode generate: %v", err)
	}
	if len(gen.Password) != 7 || gen.Password[3] != '-' {
		t.Fatalf("password = %q", gen.Password)
	}

	code, env = c.post("/api/v1/otp/validate", `{"password":"`+gen.Password+`"}`)
	var res ValidateResponse
	_ = json.Unmarshal(env.Data, &res)
	if code != http.StatusOK || !res.Status || string(res.Data) != `{"order":42}` {
		t.Fatalf("validate status = %d result = %+v", code, res)
	}

	code, env = c.post("/api/v1/otp/validate", `{"password":"`+gen.Password+`"}`)
	res = ValidateResponse{}
	_ = json.Unmarshal(env.Data, &res)
	if code != http.StatusOK || res.Status || res.Error != "invalid" {
		t.Fatalf("second validate status = %d result = %+v", code, res)
	}
}

func TestHTTP_ForgetAndResetAttempt(t *testing.T) {
	c := newClient(t, entity.DefaultSettings())

	for _, path := range []string{"/api/v1/otp/forget", "/api/v1/otp/reset-attempt"} {
		code, env := c.post(path, `{"identifier":"user-1"}`)
		if code != http.StatusOK || string(env.Data) != `{"success":true}` {
			t.Fatalf("%s status = %d data = %s", path, code, env.Data)
		}
	}
}

func TestHTTP_Verify(t *testing.T) {
	settings := entity.DefaultSettings().Apply(entity.WithAttempts(1))
	c := newClient(t, settings)

	code, env := c.post("/api/v1/otp/generate", `{}`)
	if code != http.StatusOK {
		t.Fatalf("generate status = %d", code)
	}
	var gen GenerateResponse
	_ = json.Unmarshal(env.Data, &gen)

	code, env = c.post("/api/v1/otp/verify", `{"code":"nope"}`)
	if code != http.StatusUnprocessableEntity || env.Error["code"] != "The code is invalid." {
		t.Fatalf("wrong code: status = %d body = %+v", code, env)
	}

	code, env = c.post("/api/v1/otp/verify", `{"code":"`+gen.Password+`"}`)
	if code != http.StatusUnprocessableEntity || env.Error["code"] != "You have reached the maximum allowed attempts." {
		t.Fatalf("exhausted: status = %d body = %+v", code, env)
	}
}

func TestHTTP_BadRequests(t *testing.T) {
	c := newClient(t, entity.DefaultSettings())

	tests := []struct {
		name  string
		path  string
		body  string
		want  int
		field string
	}{
		{name: "unknown field", path: "/api/v1/otp/generate", body: `{"bogus":1}`, want: http.StatusBadRequest},
		{name: "bad format", path: "/api/v1/otp/generate", body: `{"format":"hex"}`, want: http.StatusUnprocessableEntity, field: "format"},
		{name: "customize empty", path: "/api/v1/otp/generate", body: `{"format":"customize"}`, want: http.StatusUnprocessableEntity},
		{name: "nothing to validate", path: "/api/v1/otp/validate", body: `{}`, want: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := c.post(tt.path, tt.body)
			if code != tt.want {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.want, env)
			}
			if tt.field != "" && env.Error[tt.field] == "" {
				t.Fatalf("missing field error %q in %+v", tt.field, env.Error)
			}
		})
	}
}
