// Package session persists the authenticated identity across restarts.
// The bearer token and the profile snapshot are written and cleared
// together; a partial pair is treated as absent and scrubbed.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/domain/customer"
	"github.com/ecomm/storefront/internal/infrastructure/store"
)

// Storage keys
const (
	KeyToken   = "auth.token"
	KeyProfile = "auth.profile"
)

// Manager owns the persisted session pair
type Manager struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewManager creates a session manager over the given store
func NewManager(s store.Store, log *zap.Logger) *Manager {
	return &Manager{store: s, log: log, now: time.Now}
}

// Establish persists the token and profile atomically, replacing any
// existing session
func (m *Manager) Establish(ctx context.Context, token string, c customer.Customer) error {
	profile, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return m.store.SetMulti(ctx, map[string]string{
		KeyToken:   token,
		KeyProfile: string(profile),
	})
}

// Clear removes both session keys atomically. Clearing an absent
// session is not an error.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Delete(ctx, KeyToken, KeyProfile)
}

// Current returns the persisted session. A missing or partial pair, or
// an expired token, yields (nil, nil): the caller sees no session, and
// the leftovers are scrubbed.
func (m *Manager) Current(ctx context.Context) (*customer.Session, error) {
	token, tokenErr := m.store.Get(ctx, KeyToken)
	profile, profileErr := m.store.Get(ctx, KeyProfile)

	if errors.Is(tokenErr, store.ErrKeyNotFound) && errors.Is(profileErr, store.ErrKeyNotFound) {
		return nil, nil
	}
	if tokenErr != nil && !errors.Is(tokenErr, store.ErrKeyNotFound) {
		return nil, tokenErr
	}
	if profileErr != nil && !errors.Is(profileErr, store.ErrKeyNotFound) {
		return nil, profileErr
	}

	// one key without the other
	if errors.Is(tokenErr, store.ErrKeyNotFound) || errors.Is(profileErr, store.ErrKeyNotFound) {
		m.log.Warn("partial session pair found, clearing")
		if err := m.Clear(ctx); err != nil {
			m.log.Error("failed to clear partial session", zap.Error(err))
		}
		return nil, nil
	}

	if customer.TokenExpired(token, m.now()) {
		m.log.Info("stored token expired, clearing session")
		if err := m.Clear(ctx); err != nil {
			m.log.Error("failed to clear expired session", zap.Error(err))
		}
		return nil, nil
	}

	var c customer.Customer
	if err := json.Unmarshal([]byte(profile), &c); err != nil {
		m.log.Warn("stored profile unreadable, clearing", zap.Error(err))
		if err := m.Clear(ctx); err != nil {
			m.log.Error("failed to clear corrupt session", zap.Error(err))
		}
		return nil, nil
	}

	return &customer.Session{Token: token, Customer: c}, nil
}

// Token returns the bearer token of the current session, or "" when
// logged out. Satisfies the gateway token source contract.
func (m *Manager) Token() string {
	s, err := m.Current(context.Background())
	if err != nil || s == nil {
		return ""
	}
	return s.Token
}

// UpdateProfile rewrites the stored profile snapshot, keeping the
// existing token
func (m *Manager) UpdateProfile(ctx context.Context, c customer.Customer) error {
	token, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return err
	}
	profile, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return m.store.SetMulti(ctx, map[string]string{
		KeyToken:   token,
		KeyProfile: string(profile),
	})
}
