package services

import (
	"context"
	"sync"

	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "services")

// fetchErrorPrefix marks persistent errors raised by fetch operations
const fetchErrorPrefix = "fetch: "

// ToppingAPI is the backend surface used by the topping operations
type ToppingAPI interface {
	ListToppings(ctx context.Context) ([]models.Topping, error)
	CreateTopping(ctx context.Context, req models.CreateToppingRequest) (*models.Topping, error)
	UpdateTopping(ctx context.Context, id int, req models.UpdateToppingRequest) (*models.Topping, error)
	DeleteTopping(ctx context.Context, id int) error
}

// PizzaAPI is the backend surface used by the pizza operations
type PizzaAPI interface {
	ListPizzas(ctx context.Context) ([]models.Pizza, error)
	GetPizza(ctx context.Context, id int) (*models.Pizza, error)
	CreatePizza(ctx context.Context, req models.CreatePizzaRequest) (*models.Pizza, error)
	UpdatePizza(ctx context.Context, id int, req models.UpdatePizzaRequest) (*models.Pizza, error)
	DeletePizza(ctx context.Context, id int) error
}

// DashboardAPI is the backend surface used by the dashboard
type DashboardAPI interface {
	Dashboard(ctx context.Context) (*models.DashboardData, error)
}

// CatalogAPI is everything the console needs from the backend
type CatalogAPI interface {
	ToppingAPI
	PizzaAPI
	DashboardAPI
}

// Catalog groups the operation services sharing one cache
type Catalog struct {
	Toppings  ToppingService
	Pizzas    PizzaService
	Dashboard DashboardService
}

// NewCatalog wires the operation services over a single store
func NewCatalog(st store.Store, api CatalogAPI, notifier notify.Notifier) *Catalog {
	loading := NewLoadingTracker(st)
	return &Catalog{
		Toppings:  NewToppingService(st, api, notifier, loading),
		Pizzas:    NewPizzaService(st, api, notifier, loading),
		Dashboard: NewDashboardService(api, notifier),
	}
}

// LoadingTracker counts in-flight cache operations so that the shared loading flag
// is only cleared by the last one to finish.
type LoadingTracker struct {
	mu       sync.Mutex
	store    store.Store
	inflight int
}

func NewLoadingTracker(st store.Store) *LoadingTracker {
	return &LoadingTracker{store: st}
}

func (l *LoadingTracker) begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight++
	l.store.Dispatch(store.SetLoading{Loading: true})
}

// end re-asserts the flag since data actions clear it unconditionally
func (l *LoadingTracker) end() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight > 0 {
		l.inflight--
	}
	l.store.Dispatch(store.SetLoading{Loading: l.inflight > 0})
}

// OperationError is returned by failed operations. Message is the text shown to the
// operator; the backend or validation error stays reachable through Unwrap.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func operationError(op, message string, err error) error {
	return &OperationError{Op: op, Message: message, Err: err}
}

// errorMessage resolves the user-facing message of a failed operation: the server
// message, then the server error field, then the local error text. A 422 without
// server text uses conflictFallback when one is given.
func errorMessage(err error, fallback, conflictFallback string) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.ErrorText != "" {
			return apiErr.ErrorText
		}
		if apiErr.IsUnprocessable() && conflictFallback != "" {
			return conflictFallback
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
