package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalogAPI struct {
	mock.Mock
}

func (m *mockCatalogAPI) ListToppings(ctx context.Context) ([]models.Topping, error) {
	args := m.Called(ctx)
	toppings, _ := args.Get(0).([]models.Topping)
	return toppings, args.Error(1)
}

func (m *mockCatalogAPI) CreateTopping(ctx context.Context, req models.CreateToppingRequest) (*models.Topping, error) {
	args := m.Called(ctx, req)
	topping, _ := args.Get(0).(*models.Topping)
	return topping, args.Error(1)
}

func (m *mockCatalogAPI) UpdateTopping(ctx context.Context, id int, req models.UpdateToppingRequest) (*models.Topping, error) {
	args := m.Called(ctx, id, req)
	topping, _ := args.Get(0).(*models.Topping)
	return topping, args.Error(1)
}

func (m *mockCatalogAPI) DeleteTopping(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogAPI) ListPizzas(ctx context.Context) ([]models.Pizza, error) {
	args := m.Called(ctx)
	pizzas, _ := args.Get(0).([]models.Pizza)
	return pizzas, args.Error(1)
}

func (m *mockCatalogAPI) GetPizza(ctx context.Context, id int) (*models.Pizza, error) {
	args := m.Called(ctx, id)
	pizza, _ := args.Get(0).(*models.Pizza)
	return pizza, args.Error(1)
}

func (m *mockCatalogAPI) CreatePizza(ctx context.Context, req models.CreatePizzaRequest) (*models.Pizza, error) {
	args := m.Called(ctx, req)
	pizza, _ := args.Get(0).(*models.Pizza)
	return pizza, args.Error(1)
}

func (m *mockCatalogAPI) UpdatePizza(ctx context.Context, id int, req models.UpdatePizzaRequest) (*models.Pizza, error) {
	args := m.Called(ctx, id, req)
	pizza, _ := args.Get(0).(*models.Pizza)
	return pizza, args.Error(1)
}

func (m *mockCatalogAPI) DeletePizza(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogAPI) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(*models.DashboardData)
	return data, args.Error(1)
}

func setupCatalog(t *testing.T) (*Catalog, *mockCatalogAPI, store.Store, *notify.Feed) {
	t.Helper()
	api := &mockCatalogAPI{}
	st := store.New()
	feed := notify.NewFeed(0)
	return NewCatalog(st, api, feed), api, st, feed
}

func lastNotification(t *testing.T, feed *notify.Feed) notify.Notification {
	t.Helper()
	recent := feed.Recent()
	require.NotEmpty(t, recent)
	return recent[len(recent)-1]
}

func TestFetchToppingsReplacesCache(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	api.On("ListToppings", mock.Anything).Return([]models.Topping{{ID: 1, Name: "Cheese"}, {ID: 2, Name: "Basil"}}, nil)

	require.NoError(t, catalog.Toppings.FetchToppings(context.Background()))

	state := st.GetState()
	require.Len(t, state.Toppings, 2)
	assert.Equal(t, "Basil", state.Toppings[1].Name)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestFetchToppingsFailureSetsBanner(t *testing.T) {
	catalog, api, st, feed := setupCatalog(t)
	api.On("ListToppings", mock.Anything).Return(nil, &client.APIError{StatusCode: http.StatusInternalServerError, Message: "database down"})

	err := catalog.Toppings.FetchToppings(context.Background())
	require.Error(t, err)

	state := st.GetState()
	assert.Equal(t, "fetch: database down", state.Error)
	assert.False(t, state.Loading)

	n := lastNotification(t, feed)
	assert.Equal(t, "Error Loading Toppings", n.Title)
	assert.Equal(t, "database down", n.Message)
	assert.Equal(t, notify.LevelError, n.Level)
}

func TestCreateToppingAppendsAndNotifies(t *testing.T) {
	catalog, api, st, feed := setupCatalog(t)
	req := models.CreateToppingRequest{Name: "Olives", Price: "1.25"}
	api.On("CreateTopping", mock.Anything, req).Return(&models.Topping{ID: 7, Name: "Olives", Price: "1.25"}, nil)

	topping, err := catalog.Toppings.CreateTopping(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, topping.ID)

	state := st.GetState()
	require.Len(t, state.Toppings, 1)
	assert.Equal(t, "Olives", state.Toppings[0].Name)

	n := lastNotification(t, feed)
	assert.Equal(t, "Topping created successfully", n.Message)
	assert.Equal(t, notify.LevelSuccess, n.Level)
}

func TestCreateToppingConflictFallback(t *testing.T) {
	catalog, api, st, feed := setupCatalog(t)
	req := models.CreateToppingRequest{Name: "Olives", Price: "1.25"}
	api.On("CreateTopping", mock.Anything, req).Return(nil, &client.APIError{StatusCode: http.StatusUnprocessableEntity})

	_, err := catalog.Toppings.CreateTopping(context.Background(), req)
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Validation error - topping may already exist", opErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, client.StatusCode(err))

	n := lastNotification(t, feed)
	assert.Equal(t, "Error Creating Topping", n.Title)
	assert.Equal(t, "Validation error - topping may already exist", n.Message)
	assert.Empty(t, st.GetState().Toppings)
	assert.Empty(t, st.GetState().Error)
}

func TestCreateToppingValidatesBeforeCalling(t *testing.T) {
	catalog, api, _, feed := setupCatalog(t)

	_, err := catalog.Toppings.CreateTopping(context.Background(), models.CreateToppingRequest{Name: "X", Price: "abc"})
	require.Error(t, err)

	api.AssertNotCalled(t, "CreateTopping", mock.Anything, mock.Anything)
	assert.Equal(t, "Error Creating Topping", lastNotification(t, feed).Title)
}

func TestUpdateToppingReplacesCachedItem(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	st.Dispatch(store.SetToppings{Toppings: []*models.Topping{{ID: 3, Name: "Ham"}}})
	req := models.UpdateToppingRequest{Name: "Smoked Ham", Price: "2.00"}
	api.On("UpdateTopping", mock.Anything, 3, req).Return(&models.Topping{ID: 3, Name: "Smoked Ham", Price: "2.00"}, nil)

	_, err := catalog.Toppings.UpdateTopping(context.Background(), 3, req)
	require.NoError(t, err)

	state := st.GetState()
	require.Len(t, state.Toppings, 1)
	assert.Equal(t, "Smoked Ham", state.Toppings[0].Name)
}

func TestDeleteToppingInUseIsSwallowed(t *testing.T) {
	catalog, api, st, feed := setupCatalog(t)
	st.Dispatch(store.SetToppings{Toppings: []*models.Topping{{ID: 3, Name: "Ham"}}})
	api.On("DeleteTopping", mock.Anything, 3).Return(&client.APIError{StatusCode: http.StatusUnprocessableEntity})

	ok := catalog.Toppings.DeleteTopping(context.Background(), 3)
	assert.False(t, ok)

	n := lastNotification(t, feed)
	assert.Equal(t, "Cannot Delete Topping", n.Title)
	assert.Equal(t, "Cannot delete topping - it may be in use by existing pizzas", n.Message)
	assert.Len(t, st.GetState().Toppings, 1)
	assert.False(t, st.GetState().Loading)
}

func TestDeleteToppingRemovesCachedItem(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	st.Dispatch(store.SetToppings{Toppings: []*models.Topping{{ID: 3, Name: "Ham"}, {ID: 4, Name: "Corn"}}})
	api.On("DeleteTopping", mock.Anything, 3).Return(nil)

	assert.True(t, catalog.Toppings.DeleteTopping(context.Background(), 3))

	state := st.GetState()
	require.Len(t, state.Toppings, 1)
	assert.Equal(t, 4, state.Toppings[0].ID)
}

func TestCreatePizzaFetchesMissingToppingDetails(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	req := models.CreatePizzaRequest{Name: "Margherita", ToppingIDs: []int{1, 2}}
	partial := &models.Pizza{ID: 9, Name: "Margherita", Toppings: []models.Topping{{ID: 1}, {ID: 2}}}
	full := &models.Pizza{ID: 9, Name: "Margherita", Toppings: []models.Topping{{ID: 1, Name: "Cheese"}, {ID: 2, Name: "Basil"}}}
	api.On("CreatePizza", mock.Anything, req).Return(partial, nil)
	api.On("GetPizza", mock.Anything, 9).Return(full, nil).Once()

	pizza, err := catalog.Pizzas.CreatePizza(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, full, pizza)

	api.AssertNumberOfCalls(t, "GetPizza", 1)
	state := st.GetState()
	require.Len(t, state.Pizzas, 1)
	assert.Equal(t, "Basil", state.Pizzas[0].Toppings[1].Name)
}

func TestCreatePizzaKeepsPartialRecordWhenFollowUpFails(t *testing.T) {
	catalog, api, st, feed := setupCatalog(t)
	req := models.CreatePizzaRequest{Name: "Margherita", ToppingIDs: []int{1}}
	partial := &models.Pizza{ID: 9, Name: "Margherita", Toppings: []models.Topping{{ID: 1}}}
	api.On("CreatePizza", mock.Anything, req).Return(partial, nil)
	api.On("GetPizza", mock.Anything, 9).Return(nil, errors.New("connection reset"))

	pizza, err := catalog.Pizzas.CreatePizza(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, partial, pizza)
	assert.Len(t, st.GetState().Pizzas, 1)
	assert.Equal(t, "Pizza created successfully", lastNotification(t, feed).Message)
}

func TestUpdatePizzaSkipsFollowUpWhenComplete(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	st.Dispatch(store.SetPizzas{Pizzas: []*models.Pizza{{ID: 9, Name: "Margherita"}}})
	req := models.UpdatePizzaRequest{Name: "Margherita DOP"}
	updated := &models.Pizza{ID: 9, Name: "Margherita DOP", Toppings: []models.Topping{{ID: 1, Name: "Cheese"}}}
	api.On("UpdatePizza", mock.Anything, 9, req).Return(updated, nil)

	_, err := catalog.Pizzas.UpdatePizza(context.Background(), 9, req)
	require.NoError(t, err)

	api.AssertNotCalled(t, "GetPizza", mock.Anything, mock.Anything)
	assert.Equal(t, "Margherita DOP", st.GetState().Pizzas[0].Name)
}

func TestDeletePizzaServerMessageWins(t *testing.T) {
	catalog, api, _, feed := setupCatalog(t)
	api.On("DeletePizza", mock.Anything, 9).Return(&client.APIError{StatusCode: http.StatusUnprocessableEntity, ErrorText: "pizza is featured"})

	assert.False(t, catalog.Pizzas.DeletePizza(context.Background(), 9))
	assert.Equal(t, "pizza is featured", lastNotification(t, feed).Message)
}

func TestFetchPizzasPlainErrorMessage(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	api.On("ListPizzas", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	require.Error(t, catalog.Pizzas.FetchPizzas(context.Background()))
	assert.Equal(t, "fetch: dial tcp: connection refused", st.GetState().Error)
}

func TestDashboardStateLifecycle(t *testing.T) {
	catalog, api, _, feed := setupCatalog(t)
	data := &models.DashboardData{}
	data.Statistics.TotalPizzas = 4
	api.On("Dashboard", mock.Anything).Return(data, nil).Once()
	api.On("Dashboard", mock.Anything).Return(nil, &client.APIError{StatusCode: http.StatusBadGateway, Message: "upstream"}).Once()

	require.NoError(t, catalog.Dashboard.FetchDashboard(context.Background()))
	state := catalog.Dashboard.State()
	assert.Equal(t, 4, state.Data.Statistics.TotalPizzas)
	assert.False(t, state.Loading)
	assert.False(t, state.LastUpdated.IsZero())

	require.Error(t, catalog.Dashboard.FetchDashboard(context.Background()))
	state = catalog.Dashboard.State()
	assert.Equal(t, "fetch: upstream", state.Error)
	assert.Equal(t, data, state.Data)
	assert.Equal(t, "Error", lastNotification(t, feed).Title)
}

func TestLoadingStaysSetWhileOperationsOverlap(t *testing.T) {
	st := store.New()
	tracker := NewLoadingTracker(st)

	tracker.begin()
	tracker.begin()
	st.Dispatch(store.SetToppings{})
	tracker.end()
	assert.True(t, st.GetState().Loading)

	tracker.end()
	assert.False(t, st.GetState().Loading)
}

func TestConcurrentFetchesSettleNotLoading(t *testing.T) {
	catalog, api, st, _ := setupCatalog(t)
	api.On("ListToppings", mock.Anything).Return([]models.Topping{{ID: 1, Name: "Cheese"}}, nil)
	api.On("ListPizzas", mock.Anything).Return([]models.Pizza{{ID: 2, Name: "Napoli"}}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, catalog.Toppings.FetchToppings(context.Background()))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, catalog.Pizzas.FetchPizzas(context.Background()))
		}()
	}
	wg.Wait()

	state := st.GetState()
	assert.False(t, state.Loading)
	assert.Len(t, state.Toppings, 1)
	assert.Len(t, state.Pizzas, 1)
}
