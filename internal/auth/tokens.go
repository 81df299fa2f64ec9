package auth

import (
	"strconv"
	"sync"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/storage"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "auth")

// TokenInfo describes the expiration of the stored token
type TokenInfo struct {
	Token            string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	IsExpired        bool      `json:"is_expired"`
	ExpiresInMinutes int       `json:"expires_in_minutes"`
}

// TokenManager tracks the single bearer token of the console and its expiration.
// All state lives in the persistent storage; the manager itself only holds the
// logout callback slot.
type TokenManager struct {
	storage   storage.Storage
	navigator Navigator
	now       func() time.Time

	mu       sync.Mutex
	onLogout func()

	// writeMu serializes token writes with conditional clears
	writeMu sync.Mutex
}

// TokenManagerOption customizes a TokenManager
type TokenManagerOption func(*TokenManager)

// WithClock injects a custom clock (useful for tests)
func WithClock(clock func() time.Time) TokenManagerOption {
	return func(m *TokenManager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewTokenManager creates a token manager over the given storage. The navigator is
// used by HandleExpiration when no logout callback is registered.
func NewTokenManager(s storage.Storage, navigator Navigator, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		storage:   s,
		navigator: navigator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns the stored bearer token, or "" when there is none
func (m *TokenManager) Token() string {
	token, _ := m.storage.Get(storage.KeyAuthToken)
	return token
}

// SaveToken persists the token. A non-zero expiresAt is stored as epoch milliseconds;
// otherwise the exp claim of a JWT token is used when available.
func (m *TokenManager) SaveToken(token string, expiresAt time.Time) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.storage.Set(storage.KeyAuthToken, token); err != nil {
		return err
	}

	if expiresAt.IsZero() {
		if exp, ok := ExpirationFromJWT(token); ok {
			expiresAt = exp
		}
	}
	if expiresAt.IsZero() {
		// a stale value would belong to a previous token
		return m.storage.Remove(storage.KeyTokenExpiration)
	}
	return m.storage.Set(storage.KeyTokenExpiration, strconv.FormatInt(expiresAt.UnixMilli(), 10))
}

// expiration returns the persisted expiration, if any
func (m *TokenManager) expiration() (time.Time, bool) {
	raw, ok := m.storage.Get(storage.KeyTokenExpiration)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.WithField("value", raw).Warn("Ignoring malformed token expiration")
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// IsTokenExpired reports true when there is no token or the persisted expiration has
// passed. Without expiration info the token is assumed valid; the backend rejects it
// with a 401 if it is not.
func (m *TokenManager) IsTokenExpired() bool {
	if m.Token() == "" {
		return true
	}
	exp, ok := m.expiration()
	if !ok {
		return false
	}
	return m.now().After(exp)
}

// TokenInfo returns the expiration details of the stored token, or nil when no token
// or no expiration is known.
func (m *TokenManager) TokenInfo() *TokenInfo {
	token := m.Token()
	if token == "" {
		return nil
	}
	exp, ok := m.expiration()
	if !ok {
		return nil
	}
	now := m.now()
	minutes := int(exp.Sub(now) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return &TokenInfo{
		Token:            token,
		ExpiresAt:        exp,
		IsExpired:        now.After(exp),
		ExpiresInMinutes: minutes,
	}
}

// RegisterLogoutCallback sets the function run by HandleExpiration, replacing any previous one
func (m *TokenManager) RegisterLogoutCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

// ClearLogoutCallback empties the callback slot
func (m *TokenManager) ClearLogoutCallback() {
	m.RegisterLogoutCallback(nil)
}

// ClearCredentials removes the stored token and user
func (m *TokenManager) ClearCredentials() {
	if err := m.storage.Remove(storage.KeyAuthToken, storage.KeyUser); err != nil {
		log.WithError(err).Error("Failed to clear persisted credentials")
	}
}

// ClearSession removes every persisted session key
func (m *TokenManager) ClearSession() {
	if err := m.storage.Remove(storage.KeyAuthToken, storage.KeyUser, storage.KeyTokenExpiration); err != nil {
		log.WithError(err).Error("Failed to clear persisted session")
	}
}

// ClearSessionFor removes every persisted session key only while token is still the
// stored one. It reports whether the session was cleared.
func (m *TokenManager) ClearSessionFor(token string) bool {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if m.Token() != token {
		return false
	}
	m.ClearSession()
	return true
}

// HandleExpiration clears the persisted credentials and then runs the logout
// callback, or navigates to the login route when none is registered. Safe to call
// more than once.
func (m *TokenManager) HandleExpiration() {
	log.Info("Token expired, logging out user")
	m.ClearCredentials()

	m.mu.Lock()
	callback := m.onLogout
	m.mu.Unlock()

	if callback != nil {
		callback()
		return
	}
	log.Warn("No logout callback available, redirecting manually")
	if m.navigator != nil {
		m.navigator.Navigate(LoginRoute)
	}
}
