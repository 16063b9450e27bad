package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agrotrade/agrotrade-client/pkg/config"
	"github.com/agrotrade/agrotrade-client/pkg/localstore"
)

const tokensKey = "session_tokens"

// ErrNoSession is returned when no tokens have been stored yet.
var ErrNoSession = errors.New("no stored session")

// Tokens is the bearer pair issued by the auth endpoints.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager keeps the session tokens in the local store and decides, from the
// access token's exp claim, when a refresh is due. Tokens are parsed without
// signature verification; the client never holds the signing secret.
type Manager struct {
	store  *localstore.Store
	leeway time.Duration
	parser *jwt.Parser
}

// NewManager constructs a session manager backed by the local store.
func NewManager(store *localstore.Store, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, errors.New("local store is required")
	}
	leeway := cfg.RefreshLeeway
	if leeway < 0 {
		leeway = 0
	}
	return &Manager{
		store:  store,
		leeway: leeway,
		parser: jwt.NewParser(),
	}, nil
}

// Current returns the stored token pair.
func (m *Manager) Current() (Tokens, error) {
	var t Tokens
	err := m.store.Get(tokensKey, &t)
	if errors.Is(err, localstore.ErrNotFound) {
		return Tokens{}, ErrNoSession
	}
	if err != nil {
		return Tokens{}, err
	}
	if strings.TrimSpace(t.Access) == "" {
		return Tokens{}, ErrNoSession
	}
	return t, nil
}

// Save persists a new token pair.
func (m *Manager) Save(t Tokens) error {
	if strings.TrimSpace(t.Access) == "" {
		return errors.New("access token is required")
	}
	return m.store.Set(tokensKey, t)
}

// Clear drops the stored session.
func (m *Manager) Clear() error {
	return m.store.Delete(tokensKey)
}

// NeedsRefresh reports whether the access token expires within the refresh
// leeway (or already has). A token without an exp claim never needs refresh.
func (m *Manager) NeedsRefresh(now time.Time) (bool, error) {
	tokens, err := m.Current()
	if err != nil {
		return false, err
	}
	expiry, err := m.accessExpiry(tokens.Access)
	if err != nil {
		return false, err
	}
	if expiry.IsZero() {
		return false, nil
	}
	return !now.Add(m.leeway).Before(expiry), nil
}

func (m *Manager) accessExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := m.parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
