package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	mu          sync.Mutex
	loginResp   *models.LoginResponse
	loginErr    error
	profile     *models.User
	profileErr  error
	logoutCalls int
	// onProfile runs while the profile request is in flight
	onProfile func()
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return nil
}

func (f *fakeAuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	hook := f.onProfile
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, f.profileErr
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

var chef = models.User{
	ID:          3,
	Email:       "chef@pizza.test",
	FirstName:   "Mario",
	Role:        models.RolePizzaChef,
	Permissions: models.UserPermissions{CanManagePizzas: true},
}

func persistUser(t *testing.T, s storage.Storage, user models.User) {
	t.Helper()
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, s.Set(storage.KeyUser, string(raw)))
}

func setup(t *testing.T, api *fakeAuthAPI, prepare func(storage.Storage)) (*Manager, storage.Storage, *recordingNavigator) {
	t.Helper()
	s := storage.NewMemoryStorage()
	if prepare != nil {
		prepare(s)
	}
	nav := &recordingNavigator{}
	tokens := auth.NewTokenManager(s, nav)
	m := NewManager(tokens, s, api, nav)
	t.Cleanup(m.Close)
	return m, s, nav
}

func TestNewManagerRestoresState(t *testing.T) {
	testCases := []struct {
		name     string
		prepare  func(storage.Storage)
		expected Status
	}{
		{name: "nothing persisted", expected: StatusAnonymous},
		{
			name: "token only",
			prepare: func(s storage.Storage) {
				_ = s.Set(storage.KeyAuthToken, "opaque")
			},
			expected: StatusLoading,
		},
		{
			name: "token and user",
			prepare: func(s storage.Storage) {
				_ = s.Set(storage.KeyAuthToken, "opaque")
				persistUser(t, s, chef)
			},
			expected: StatusAuthenticated,
		},
		{
			name: "malformed user",
			prepare: func(s storage.Storage) {
				_ = s.Set(storage.KeyAuthToken, "opaque")
				_ = s.Set(storage.KeyUser, "{not json")
			},
			expected: StatusLoading,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := setup(t, &fakeAuthAPI{}, tt.prepare)
			state := m.State()
			assert.Equal(t, tt.expected, state.Status)
			assert.Equal(t, tt.expected == StatusAuthenticated, state.IsAuthenticated)
			assert.Equal(t, tt.expected == StatusLoading, state.IsLoading)
		})
	}
}

func TestLoginPersistsSession(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	api := &fakeAuthAPI{loginResp: &models.LoginResponse{
		Message:   "Login successful",
		User:      chef,
		Token:     "opaque-token",
		ExpiresAt: expires.Format(time.RFC3339),
	}}
	m, s, _ := setup(t, api, nil)

	var seen []Status
	unsubscribe := m.Subscribe(func(st State) { seen = append(seen, st.Status) })
	defer unsubscribe()

	user, err := m.Login(context.Background(), chef.Email, "secret")
	require.NoError(t, err)
	assert.Equal(t, chef.Email, user.Email)
	assert.Equal(t, []Status{StatusLoading, StatusAuthenticated}, seen)

	token, ok := s.Get(storage.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "opaque-token", token)

	rawUser, ok := s.Get(storage.KeyUser)
	require.True(t, ok)
	assert.Contains(t, rawUser, chef.Email)

	_, ok = s.Get(storage.KeyTokenExpiration)
	assert.True(t, ok)

	perms := m.Permissions()
	assert.True(t, perms.CanCreatePizzas)
	assert.False(t, perms.CanCreateToppings)
	assert.True(t, perms.CanViewDashboard)
}

func TestLoginFailureMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "server message",
			err:      &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"},
			expected: "Invalid email or password",
		},
		{
			name:     "server error field",
			err:      &client.APIError{StatusCode: http.StatusUnauthorized, ErrorText: "unauthorized"},
			expected: "unauthorized",
		},
		{
			name:     "transport failure",
			err:      errors.New("connection refused"),
			expected: "Login failed",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := setup(t, &fakeAuthAPI{loginErr: tt.err}, nil)
			_, err := m.Login(context.Background(), "a@b.test", "x")
			require.Error(t, err)

			state := m.State()
			assert.Equal(t, StatusError, state.Status)
			assert.Equal(t, tt.expected, state.Error)
			assert.False(t, state.IsAuthenticated)
		})
	}
}

func TestVerifyRefreshesUser(t *testing.T) {
	refreshed := chef
	refreshed.FirstName = "Luigi"
	m, s, nav := setup(t, &fakeAuthAPI{profile: &refreshed}, func(s storage.Storage) {
		_ = s.Set(storage.KeyAuthToken, "opaque")
	})

	require.NoError(t, m.Verify(context.Background()))

	state := m.State()
	assert.Equal(t, StatusAuthenticated, state.Status)
	assert.Equal(t, "Luigi", state.User.FirstName)
	rawUser, _ := s.Get(storage.KeyUser)
	assert.Contains(t, rawUser, "Luigi")
	assert.Empty(t, nav.Routes())
}

func TestVerifyFailureClearsWithoutNavigating(t *testing.T) {
	m, s, nav := setup(t, &fakeAuthAPI{profileErr: &client.APIError{StatusCode: http.StatusUnauthorized}}, func(s storage.Storage) {
		_ = s.Set(storage.KeyAuthToken, "opaque")
		_ = s.Set(storage.KeyTokenExpiration, "4102444800000")
		persistUser(t, s, chef)
	})
	require.Equal(t, StatusAuthenticated, m.State().Status)

	require.Error(t, m.Verify(context.Background()))

	assert.Equal(t, StatusAnonymous, m.State().Status)
	for _, key := range []string{storage.KeyAuthToken, storage.KeyUser, storage.KeyTokenExpiration} {
		_, ok := s.Get(key)
		assert.False(t, ok, key)
	}
	assert.Empty(t, nav.Routes())
}

func TestVerifyFailureKeepsTokenSavedDuringRequest(t *testing.T) {
	api := &fakeAuthAPI{profileErr: &client.APIError{StatusCode: http.StatusUnauthorized}}
	m, s, _ := setup(t, api, func(s storage.Storage) {
		_ = s.Set(storage.KeyAuthToken, "stale")
		persistUser(t, s, chef)
	})
	api.onProfile = func() {
		// a concurrent login persists its token before the profile call fails
		require.NoError(t, s.Set(storage.KeyAuthToken, "fresh"))
	}

	require.Error(t, m.Verify(context.Background()))

	token, ok := s.Get(storage.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "fresh", token)
	_, ok = s.Get(storage.KeyUser)
	assert.True(t, ok)
	assert.NotEqual(t, StatusAnonymous, m.State().Status)
}

func TestLogoutIsIdempotent(t *testing.T) {
	m, s, nav := setup(t, &fakeAuthAPI{}, func(s storage.Storage) {
		_ = s.Set(storage.KeyAuthToken, "opaque")
		persistUser(t, s, chef)
	})

	m.Logout()
	m.Logout()

	assert.Equal(t, StatusAnonymous, m.State().Status)
	assert.Nil(t, m.State().User)
	_, ok := s.Get(storage.KeyAuthToken)
	assert.False(t, ok)
	assert.Equal(t, []string{auth.LoginRoute, auth.LoginRoute}, nav.Routes())
	assert.Equal(t, models.Permissions{}, m.Permissions())
}

func TestSignOutCallsBackend(t *testing.T) {
	api := &fakeAuthAPI{}
	m, _, nav := setup(t, api, func(s storage.Storage) {
		_ = s.Set(storage.KeyAuthToken, "opaque")
		persistUser(t, s, chef)
	})

	m.SignOut(context.Background())
	m.SignOut(context.Background())

	assert.Equal(t, 1, api.logoutCalls)
	assert.Equal(t, StatusAnonymous, m.State().Status)
	assert.Len(t, nav.Routes(), 2)
}

func TestTokenExpirationRoutesThroughManager(t *testing.T) {
	s := storage.NewMemoryStorage()
	_ = s.Set(storage.KeyAuthToken, "opaque")
	persistUser(t, s, chef)
	nav := &recordingNavigator{}
	tokens := auth.NewTokenManager(s, nav)
	m := NewManager(tokens, s, &fakeAuthAPI{}, nav)
	defer m.Close()

	tokens.HandleExpiration()

	assert.Equal(t, StatusAnonymous, m.State().Status)
	assert.Equal(t, []string{auth.LoginRoute}, nav.Routes())
}

func TestCheckExpiration(t *testing.T) {
	m, _, nav := setup(t, &fakeAuthAPI{}, func(s storage.Storage) {
		_ = s.Set(storage.KeyAuthToken, "opaque")
		_ = s.Set(storage.KeyTokenExpiration, "1000")
		persistUser(t, s, chef)
	})

	m.CheckExpiration()

	assert.Equal(t, StatusAnonymous, m.State().Status)
	assert.Equal(t, []string{auth.LoginRoute}, nav.Routes())
}

func TestStartRunsPeriodicCheck(t *testing.T) {
	s := storage.NewMemoryStorage()
	nav := &recordingNavigator{}
	tokens := auth.NewTokenManager(s, nav)
	require.NoError(t, tokens.SaveToken("opaque", time.Now().Add(200*time.Millisecond)))
	m := NewManager(tokens, s, &fakeAuthAPI{profile: &chef}, nav, WithCheckInterval(10*time.Millisecond))
	defer m.Close()
	require.Equal(t, StatusLoading, m.State().Status)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	assert.Eventually(t, func() bool {
		return m.State().Status == StatusAuthenticated
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return m.State().Status == StatusAnonymous
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, nav.Routes(), auth.LoginRoute)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	m, _, _ := setup(t, &fakeAuthAPI{}, nil)
	calls := 0
	unsubscribe := m.Subscribe(func(State) { calls++ })

	m.Logout()
	unsubscribe()
	unsubscribe()
	m.Logout()

	assert.Equal(t, 1, calls)
}
