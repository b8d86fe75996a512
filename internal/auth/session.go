// Package auth holds the login session procdash authenticates API calls with.
//
// A [Session] is an explicit value with an expiry and a format version. It is
// created by "procdash login", persisted by a [Store], checked by a [Guard]
// before any command talks to the API, and destroyed by "procdash logout".
package auth

import (
	"net/http"
	"time"

	"github.com/Iron-Ham/procdash/internal/errors"
)

// SessionVersion is the on-disk session format. Sessions written with a
// different version are rejected and must be recreated with login.
const SessionVersion = 1

// DefaultLifetime applies when the API does not say when a token expires.
const DefaultLifetime = 24 * time.Hour

// Session is an authenticated API session.
type Session struct {
	Token     string    `yaml:"token"`
	ExpiresAt time.Time `yaml:"expires_at"`
	Version   int       `yaml:"version"`
	Username  string    `yaml:"username"`
}

// NewSession builds a current-version session. A zero expiresAt is replaced
// with now + DefaultLifetime.
func NewSession(username, token string, expiresAt, now time.Time) Session {
	if expiresAt.IsZero() {
		expiresAt = now.Add(DefaultLifetime)
	}
	return Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Version:   SessionVersion,
		Username:  username,
	}
}

// Check reports why the session cannot be used at now, or nil.
func (s Session) Check(now time.Time) error {
	switch {
	case s.Token == "":
		return errors.ErrNoSession
	case s.Version != SessionVersion:
		return errors.ErrSessionVersion
	case !now.Before(s.ExpiresAt):
		return errors.ErrSessionExpired
	}
	return nil
}

// Valid reports whether the session can authenticate requests at now.
func (s Session) Valid(now time.Time) bool {
	return s.Check(now) == nil
}

// Cookie renders the session as the cookie the API expects.
func (s Session) Cookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:    name,
		Value:   s.Token,
		Expires: s.ExpiresAt,
	}
}
