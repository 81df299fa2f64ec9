package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/storage"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "session")

// DefaultCheckInterval is how often an authenticated session re-checks its token
const DefaultCheckInterval = 5 * time.Minute

// Status is the lifecycle stage of the operator session
type Status string

const (
	StatusLoading       Status = "loading"
	StatusAnonymous     Status = "anonymous"
	StatusAuthenticated Status = "authenticated"
	StatusError         Status = "error"
)

// State is a snapshot of the operator session
type State struct {
	Status          Status       `json:"status"`
	User            *models.User `json:"user"`
	Token           string       `json:"-"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
	Error           string       `json:"error,omitempty"`
}

func anonymousState() State {
	return State{Status: StatusAnonymous}
}

// Listener is notified with the new state after every transition
type Listener func(State)

// AuthAPI is the backend surface used by the session
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Option customizes a Manager
type Option func(*Manager)

// WithCheckInterval sets the period of the expiration check
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// Manager owns the single operator session of the console
type Manager struct {
	tokens    *auth.TokenManager
	storage   storage.Storage
	api       AuthAPI
	navigator auth.Navigator
	interval  time.Duration

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewManager restores the session from storage and registers itself as the token
// manager's logout callback. A persisted token without a user leaves the session
// loading until Verify or Start resolves it.
func NewManager(tokens *auth.TokenManager, s storage.Storage, api AuthAPI, navigator auth.Navigator, opts ...Option) *Manager {
	m := &Manager{
		tokens:    tokens,
		storage:   s,
		api:       api,
		navigator: navigator,
		interval:  DefaultCheckInterval,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.state = m.restore()
	tokens.RegisterLogoutCallback(m.Logout)
	return m
}

func (m *Manager) restore() State {
	token := m.tokens.Token()
	if token == "" {
		return anonymousState()
	}

	user := m.persistedUser()
	if user == nil {
		return State{Status: StatusLoading, Token: token, IsLoading: true}
	}
	return State{Status: StatusAuthenticated, User: user, Token: token, IsAuthenticated: true}
}

func (m *Manager) persistedUser() *models.User {
	raw, ok := m.storage.Get(storage.KeyUser)
	if !ok || raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.WithError(err).Warn("Ignoring malformed persisted user")
		return nil
	}
	return &user
}

func (m *Manager) persistUser(user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return m.storage.Set(storage.KeyUser, string(raw))
}

// State returns the current session snapshot
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Permissions derives the capability flags of the current user
func (m *Manager) Permissions() models.Permissions {
	return models.PermissionsFor(m.State().User)
}

// Subscribe registers a listener for state transitions and returns its unsubscribe function
func (m *Manager) Subscribe(listener Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.listeners, id)
		})
	}
}

// transition applies next unless guard rejects the current state
func (m *Manager) transition(guard func(State) bool, next State) bool {
	m.mu.Lock()
	if guard != nil && !guard(m.state) {
		m.mu.Unlock()
		return false
	}
	m.state = next
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return true
}

func (m *Manager) set(next State) {
	m.transition(nil, next)
}

// Start verifies a restored token in the background and runs the periodic
// expiration check until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	if m.tokens.Token() != "" {
		go func() {
			if err := m.Verify(ctx); err != nil {
				log.WithError(err).Info("Stored session could not be verified")
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckExpiration()
			}
		}
	}()
}

// CheckExpiration logs the operator out when an authenticated session holds an expired token
func (m *Manager) CheckExpiration() {
	if m.State().Status != StatusAuthenticated {
		return
	}
	if m.tokens.IsTokenExpired() {
		log.Info("Token expired during periodic check")
		m.Logout()
	}
}

// Verify confirms the stored token against the backend profile endpoint. On failure
// the persisted session is cleared and the state becomes anonymous without navigating.
// A result is discarded when the token changed while the request was in flight.
func (m *Manager) Verify(ctx context.Context) error {
	token := m.tokens.Token()
	if token == "" {
		m.set(anonymousState())
		return nil
	}

	stillCurrent := func(s State) bool { return s.Token == token }

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		// a login that persisted a new token in the meantime keeps its session
		if stillCurrent(m.State()) && m.tokens.ClearSessionFor(token) {
			m.transition(stillCurrent, anonymousState())
		}
		return fmt.Errorf("failed to verify session: %w", err)
	}

	if !stillCurrent(m.State()) {
		return nil
	}
	if err := m.persistUser(user); err != nil {
		log.WithError(err).Error("Failed to persist verified user")
	}
	m.transition(stillCurrent, State{Status: StatusAuthenticated, User: user, Token: token, IsAuthenticated: true})
	return nil
}

// Login exchanges credentials for a token and persists the resulting session
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.set(State{Status: StatusLoading, IsLoading: true})

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		message := loginErrorMessage(err)
		log.WithFields(logrus.Fields{"email": email}).WithError(err).Warn("Login failed")
		m.set(State{Status: StatusError, Error: message})
		return nil, err
	}

	if err := m.tokens.SaveToken(resp.Token, parseExpiration(resp.ExpiresAt)); err != nil {
		m.set(State{Status: StatusError, Error: "Login failed"})
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	user := resp.User
	if err := m.persistUser(&user); err != nil {
		m.set(State{Status: StatusError, Error: "Login failed"})
		return nil, err
	}

	log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("Operator logged in")
	m.set(State{Status: StatusAuthenticated, User: &user, Token: resp.Token, IsAuthenticated: true})
	return &user, nil
}

// Logout clears the persisted session and sends the operator to the login route.
// Safe to call more than once.
func (m *Manager) Logout() {
	m.tokens.ClearSession()
	m.set(anonymousState())
	if m.navigator != nil {
		m.navigator.Navigate(auth.LoginRoute)
	}
}

// SignOut revokes the token on the backend when possible, then logs out locally
func (m *Manager) SignOut(ctx context.Context) {
	if m.tokens.Token() != "" {
		if err := m.api.Logout(ctx); err != nil {
			log.WithError(err).Warn("Backend logout failed, clearing local session anyway")
		}
	}
	m.Logout()
}

// Close releases the token manager's logout callback
func (m *Manager) Close() {
	m.tokens.ClearLogoutCallback()
}

func loginErrorMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.ErrorText != "" {
			return apiErr.ErrorText
		}
	}
	return "Login failed"
}

func parseExpiration(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	exp, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.WithField("expires_at", raw).Warn("Ignoring malformed token expiration")
		return time.Time{}
	}
	return exp
}
