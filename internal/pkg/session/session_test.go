package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return "sid-" + string(rune('0'+s.n))
}

func TestManager_Middleware(t *testing.T) {
	// Arrange
	ids := &seqID{}
	store := NewCookieStore(Config{Name: "otp", Secret: []byte("0123456789abcdef0123456789abcdef"), MaxAge: 3600})
	m := NewManager(store, "otp", ids)

	var seen []string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := Source{}.Identifier(r.Context())
		if err != nil {
			t.Errorf("Identifier() error = %v", err)
		}
		seen = append(seen, sid)
	}))

	// Act
	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/", nil))

	second := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for _, c := range first.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(second, req)

	// Assert
	if len(first.Result().Cookies()) == 0 {
		t.Fatal("no session cookie issued")
	}
	if len(second.Result().Cookies()) != 0 {
		t.Fatal("cookie reissued for an existing session")
	}
	if len(seen) != 2 || seen[0] != "sid-1" || seen[1] != "sid-1" {
		t.Fatalf("session ids = %v", seen)
	}
}

func TestManager_Middleware_TamperedCookie(t *testing.T) {
	store := NewCookieStore(Config{Secret: []byte("0123456789abcdef0123456789abcdef")})
	m := NewManager(store, "otp", &seqID{})

	var sid string
	h := m.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		sid, _ = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "otp", Value: "garbage"})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if sid != "sid-1" {
		t.Fatalf("sid = %q", sid)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Fatal("expected a fresh cookie")
	}
}

func TestSource_NoSession(t *testing.T) {
	_, err := Source{}.Identifier(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}
