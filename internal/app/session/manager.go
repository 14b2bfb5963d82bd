package session

import (
	"context"
	"errors"
	"time"

	"admin/internal/app/ds"
	"admin/internal/app/dto"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is used when the token does not tell its own expiry.
const DefaultTTL = 24 * time.Hour

// Authenticator is the part of the content API the session needs.
type Authenticator interface {
	Login(ctx context.Context, credentials dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context) (*ds.User, error)
}

// LoginError is a login the API answered but did not accept.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	if e.Message == "" {
		return "login rejected"
	}
	return "login rejected: " + e.Message
}

type Manager struct {
	session *Session
	api     Authenticator
	store   Store
	now     func() time.Time
}

func NewManager(s *Session, api Authenticator, store Store) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{session: s, api: api, store: store, now: time.Now}
}

func (m *Manager) Session() *Session {
	return m.session
}

// Login exchanges credentials for a token and persists it.
func (m *Manager) Login(ctx context.Context, credentials dto.LoginRequest) (ds.User, error) {
	resp, err := m.api.Login(ctx, credentials)
	if err != nil {
		return ds.User{}, err
	}
	if !resp.Success || resp.Token == "" {
		return ds.User{}, &LoginError{Message: resp.Message}
	}

	expiresAt, ttl := m.expiry(resp.Token)
	m.session.set(resp.Token, resp.User, expiresAt)

	if err := m.store.Save(ctx, resp.Token, ttl); err != nil {
		// the in-memory session still works, only restarts lose it
		logrus.WithError(err).Warn("session token not persisted")
	}

	logrus.WithField("email", resp.User.Email).Info("admin logged in")
	return resp.User, nil
}

// Restore picks up a persisted token and checks it is still accepted.
func (m *Manager) Restore(ctx context.Context) (ds.User, error) {
	token, err := m.store.Load(ctx)
	if err != nil {
		return ds.User{}, err
	}

	expiresAt, _ := m.expiry(token)
	m.session.set(token, ds.User{}, expiresAt)

	user, err := m.api.Me(ctx)
	if err != nil {
		m.session.clear()
		if delErr := m.store.Delete(ctx); delErr != nil {
			logrus.WithError(delErr).Warn("stale session token not removed")
		}
		return ds.User{}, err
	}

	m.session.setUser(*user)
	return *user, nil
}

// Me refreshes the admin profile from the API.
func (m *Manager) Me(ctx context.Context) (ds.User, error) {
	if !m.session.LoggedIn() {
		return ds.User{}, ErrNotLoggedIn
	}
	user, err := m.api.Me(ctx)
	if err != nil {
		return ds.User{}, err
	}
	m.session.setUser(*user)
	return *user, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	m.session.clear()
	if err := m.store.Delete(ctx); err != nil && !errors.Is(err, ErrNoToken) {
		return err
	}
	logrus.Info("admin logged out")
	return nil
}

func (m *Manager) expiry(token string) (time.Time, time.Duration) {
	expiresAt, err := TokenExpiry(token)
	if err != nil {
		logrus.WithError(err).Debug("token expiry unknown")
		return time.Time{}, DefaultTTL
	}
	if expiresAt.IsZero() {
		return expiresAt, DefaultTTL
	}
	ttl := expiresAt.Sub(m.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return expiresAt, ttl
}
