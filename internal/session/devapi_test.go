package session

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/devapi"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokedTokenEndsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend, err := devapi.New(devapi.Config{})
	require.NoError(t, err)
	defer backend.Close()
	_, err = backend.SeedUser("owner@pizza.test", "secret-pass", models.RolePizzaStoreOwner, "Olga", "Owner")
	require.NoError(t, err)

	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()
	baseURL := srv.URL + devapi.BasePath

	s := storage.NewMemoryStorage()
	nav := &recordingNavigator{}
	tokens := auth.NewTokenManager(s, nav)
	authAPI := client.New(baseURL, client.WithTokenSource(tokens), client.WithUnauthorizedHandler(tokens.ClearCredentials))
	resources := client.New(baseURL, client.WithTokenSource(tokens), client.WithUnauthorizedHandler(tokens.HandleExpiration))

	m := NewManager(tokens, s, authAPI, nav)
	defer m.Close()

	_, err = m.Login(context.Background(), "owner@pizza.test", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, StatusAuthenticated, m.State().Status)
	assert.True(t, m.Permissions().CanCreateToppings)

	_, err = resources.ListToppings(context.Background())
	require.NoError(t, err)

	require.NoError(t, backend.RevokeTokens(context.Background()))

	_, err = resources.ListToppings(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusAnonymous, m.State().Status)
	assert.Equal(t, []string{auth.LoginRoute}, nav.Routes())
	for _, key := range []string{storage.KeyAuthToken, storage.KeyUser, storage.KeyTokenExpiration} {
		_, ok := s.Get(key)
		assert.False(t, ok, key)
	}
}

func TestRestoredSessionVerifiesAgainstBackend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend, err := devapi.New(devapi.Config{})
	require.NoError(t, err)
	defer backend.Close()
	_, err = backend.SeedUser("chef@pizza.test", "secret-pass", models.RolePizzaChef, "Carlo", "Chef")
	require.NoError(t, err)

	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()
	baseURL := srv.URL + devapi.BasePath

	login, err := client.New(baseURL).Login(context.Background(), "chef@pizza.test", "secret-pass")
	require.NoError(t, err)

	s := storage.NewMemoryStorage()
	require.NoError(t, s.Set(storage.KeyAuthToken, login.Token))
	tokens := auth.NewTokenManager(s, nil)
	authAPI := client.New(baseURL, client.WithTokenSource(tokens), client.WithUnauthorizedHandler(tokens.ClearCredentials))

	m := NewManager(tokens, s, authAPI, nil)
	defer m.Close()
	require.Equal(t, StatusLoading, m.State().Status)

	require.NoError(t, m.Verify(context.Background()))
	state := m.State()
	assert.Equal(t, StatusAuthenticated, state.Status)
	assert.Equal(t, "Carlo Chef", state.User.FullName)
}
