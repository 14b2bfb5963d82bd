// Package session keeps the logged-in admin of the console.
package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"admin/internal/app/ds"

	"github.com/golang-jwt/jwt"
)

var (
	ErrNotLoggedIn  = errors.New("admin is not logged in")
	ErrNoToken      = errors.New("no stored token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Session holds the bearer token and the admin profile. It is handed to the
// API client explicitly as its token source.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      ds.User
	expiresAt time.Time
	now       func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Token implements apiclient.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (ds.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.live()
}

// Authorize returns the admin when token is the one the session holds and
// it has not expired.
func (s *Session) Authorize(token string) (ds.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.live() {
		return ds.User{}, ErrNotLoggedIn
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return ds.User{}, ErrInvalidToken
	}
	return s.user, nil
}

// ExpiresAt is zero when the token carries no expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// LoggedIn is false once the token's exp claim has passed.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live()
}

// live must be called with mu held.
func (s *Session) live() bool {
	if s.token == "" {
		return false
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return s.expiresAt.IsZero() || now().Before(s.expiresAt)
}

func (s *Session) set(token string, user ds.User, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
}

func (s *Session) setUser(user ds.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) clear() {
	s.set("", ds.User{}, time.Time{})
}

// TokenExpiry reads the exp claim of an admin token without verifying its
// signature; the content API is the one checking it.
func TokenExpiry(token string) (time.Time, error) {
	claims := &ds.JWTClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, nil
	}
	return time.Unix(claims.ExpiresAt, 0), nil
}
