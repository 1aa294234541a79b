package session

import (
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"MarketGate/internal/domain/models"
)

const (
	keyAuthenticated = "authenticated"
	keyMockMode      = "mock_mode"
	keyIssuedAt      = "issued_at"
)

func init() {
	gob.Register(models.Notice{})
}

// Store reads and writes the typed session record and its flash notices
// over a cookie-backed gorilla store.
type Store struct {
	cookies *sessions.CookieStore
	name    string
}

// NewStore creates a cookie session store. Persistent sessions carry the
// fixed absolute lifetime; the session cookie itself is HttpOnly.
func NewStore(secret, cookieName string) (*Store, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(models.SessionLifetime / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs, name: cookieName}, nil
}

// Current returns the typed session for the request. An expired session
// reads back as the zero value.
func (s *Store) Current(c echo.Context) models.Session {
	raw, err := s.cookies.Get(c.Request(), s.name)
	if err != nil {
		return models.Session{}
	}

	var sess models.Session
	if v, ok := raw.Values[keyAuthenticated].(bool); ok {
		sess.Authenticated = v
	}
	if v, ok := raw.Values[keyMockMode].(bool); ok {
		sess.MockMode = v
	}
	if v, ok := raw.Values[keyIssuedAt].(int64); ok {
		sess.IssuedAt = time.Unix(v, 0)
	}
	sess.Persistent = raw.Options != nil && raw.Options.MaxAge > 0

	if sess.Expired(time.Now()) {
		return models.Session{}
	}
	return sess
}

// Save writes the typed record back to the cookie. Non-persistent
// sessions become browser-session cookies (no MaxAge).
func (s *Store) Save(c echo.Context, sess models.Session) error {
	raw, _ := s.cookies.Get(c.Request(), s.name)
	raw.Values[keyAuthenticated] = sess.Authenticated
	raw.Values[keyMockMode] = sess.MockMode
	raw.Values[keyIssuedAt] = sess.IssuedAt.Unix()

	opts := *s.cookies.Options
	if !sess.Persistent {
		opts.MaxAge = 0
	}
	raw.Options = &opts

	return raw.Save(c.Request(), c.Response())
}

// Clear removes the authentication state. The cookie itself survives as
// a browser-session cookie so a notice flashed right after the clear is
// still delivered on the next request.
func (s *Store) Clear(c echo.Context) error {
	raw, _ := s.cookies.Get(c.Request(), s.name)
	for k := range raw.Values {
		delete(raw.Values, k)
	}
	opts := *s.cookies.Options
	opts.MaxAge = 0
	raw.Options = &opts
	return raw.Save(c.Request(), c.Response())
}

// Flash queues a notice for the next rendered response.
func (s *Store) Flash(c echo.Context, n models.Notice) error {
	raw, _ := s.cookies.Get(c.Request(), s.name)
	raw.AddFlash(n)
	return raw.Save(c.Request(), c.Response())
}

// Notices drains the queued notices; each is returned once.
func (s *Store) Notices(c echo.Context) []models.Notice {
	raw, err := s.cookies.Get(c.Request(), s.name)
	if err != nil {
		return nil
	}
	flashes := raw.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	// Flashes() mutates the session, persist the drain.
	_ = raw.Save(c.Request(), c.Response())

	notices := make([]models.Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(models.Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
