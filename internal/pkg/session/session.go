// Package session keeps a per-browser session id in a signed cookie and
// exposes it as the default OTP identifier.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/shandysiswandi/otpbite/internal/pkg/uid"
)

const keySessionID = "sid"

// ErrNoSession is returned when the context carries no session id.
var ErrNoSession = errors.New("session: no session id in context")

type sessionIDKey struct{}

// Config describes the session cookie.
type Config struct {
	Name   string
	Secret []byte
	MaxAge int
	Secure bool
}

// NewCookieStore builds a signed cookie store from cfg.
func NewCookieStore(cfg Config) *sessions.CookieStore {
	store := sessions.NewCookieStore(cfg.Secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Manager loads or creates the session for each request.
type Manager struct {
	store sessions.Store
	name  string
	ids   uid.StringID
}

// NewManager returns a Manager reading the cookie called name from store.
func NewManager(store sessions.Store, name string, ids uid.StringID) *Manager {
	return &Manager{store: store, name: name, ids: ids}
}

// Middleware makes sure every request carries a session id, issuing a new
// cookie when the request has none or an unreadable one.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			slog.WarnContext(r.Context(), "session cookie rejected, starting a new one", "error", err)
		}

		sid, _ := sess.Values[keySessionID].(string)
		if sid == "" {
			sid = m.ids.Generate()
			sess.Values[keySessionID] = sid
			if err := sess.Save(r, w); err != nil {
				slog.ErrorContext(r.Context(), "failed to save session", "error", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
	})
}

// WithID returns a copy of ctx carrying sid.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// FromContext returns the session id stored in ctx.
func FromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDKey{}).(string)
	return sid, ok && sid != ""
}

// Source resolves the identifier of the current session.
type Source struct{}

// Identifier returns the session id stored in ctx or ErrNoSession.
func (Source) Identifier(ctx context.Context) (string, error) {
	sid, ok := FromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}
	return sid, nil
}
