// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"errors"
	"net/http"
	"time"
)

// Default cookie attributes. The name and path are fixed constants for a
// deployment; only the Secure flag varies between environments.
const (
	DefaultCookieName = "gatehouse_session"
	DefaultCookiePath = "/auth"
)

// ErrNoSessionCookie is returned by Read when the request carries no session
// cookie or an empty value.
var ErrNoSessionCookie = errors.New("no session cookie")

// SessionCookie translates a session token into and out of an HTTP cookie
// with fixed security attributes: HttpOnly always, SameSite=Lax, Secure per
// deployment, Path scoped to the service's route prefix.
type SessionCookie struct {
	name   string
	path   string
	secure bool
}

// NewSessionCookie creates a SessionCookie. Empty name or path fall back to
// the package defaults.
func NewSessionCookie(name, path string, secure bool) *SessionCookie {
	if name == "" {
		name = DefaultCookieName
	}
	if path == "" {
		path = DefaultCookiePath
	}
	return &SessionCookie{name: name, path: path, secure: secure}
}

// Name returns the cookie name.
func (s *SessionCookie) Name() string { return s.name }

// Write sets the session cookie carrying token. Max-Age equals the token's
// remaining ttl, so the cookie dies with the token even without server state.
func (s *SessionCookie) Write(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     s.path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear sets a cookie with the same name and path, an empty value, and a
// negative Max-Age, causing the client to discard the session immediately.
func (s *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     s.path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the raw session token from the request cookies.
func (s *SessionCookie) Read(r *http.Request) (string, error) {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return "", ErrNoSessionCookie
	}
	return c.Value, nil
}
