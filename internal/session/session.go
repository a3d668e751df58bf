// Package session guarantees that every outgoing gateway call carries a
// non-expired bearer token. The contract is check-then-refresh-once: read the
// stored session, attempt a single refresh when it is absent or expired, and
// fail with an authentication error otherwise. There is no retry loop.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/gateway"
)

// ErrNoSession indicates no credentials are stored locally.
var ErrNoSession = errors.New("no stored session")

// Credentials is the persisted session material.
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Store persists credentials between runs.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// Refresher exchanges a refresh token for fresh credentials.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}

// expirySkew refreshes tokens slightly before their actual deadline so a
// token does not expire mid-flight.
const expirySkew = 30 * time.Second

// Manager implements the gateway's TokenSource contract over a credential
// store and a refresher.
type Manager struct {
	store     Store
	refresher Refresher
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewManager wires a session manager.
func NewManager(store Store, refresher Refresher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// Token returns a valid bearer token, refreshing at most once. This check
// runs on every request, not just the first.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds, err := m.store.Load(ctx)
	if err == nil && creds.Token != "" && !expired(creds.Token, m.now()) {
		return creds.Token, nil
	}
	if err != nil && !errors.Is(err, ErrNoSession) {
		m.logger.Warn("session read failed, attempting refresh", zap.Error(err))
	}

	fresh, refreshErr := m.refreshOnce(ctx, creds.RefreshToken)
	if refreshErr != nil {
		m.logger.Debug("session refresh failed", zap.Error(refreshErr))
		return "", &gateway.AuthenticationError{Message: "please log in again"}
	}
	return fresh.Token, nil
}

// ForceSignOut clears the stored credentials. Invoked by the gateway when the
// server rejects a token.
func (m *Manager) ForceSignOut(ctx context.Context) error {
	return m.store.Clear(ctx)
}

func (m *Manager) refreshOnce(ctx context.Context, refreshToken string) (Credentials, error) {
	if m.refresher == nil {
		return Credentials{}, errors.New("no refresher configured")
	}
	if refreshToken == "" {
		return Credentials{}, errors.New("no refresh token available")
	}

	fresh, err := m.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return Credentials{}, err
	}
	if err := m.store.Save(ctx, fresh); err != nil {
		// A failed save is not fatal for this request; the token is usable.
		m.logger.Warn("failed to persist refreshed session", zap.Error(err))
	}
	return fresh, nil
}

// expired inspects the token's exp claim without verifying the signature;
// verification is the server's job. Unparseable tokens count as expired so
// they go through the refresh path.
func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Add(expirySkew).Before(claims.ExpiresAt.Time)
}
