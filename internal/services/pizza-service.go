package services

import (
	"context"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/sirupsen/logrus"
)

// PizzaService runs pizza operations against the backend and keeps the cache in sync
type PizzaService interface {
	// FetchPizzas replaces the cached pizzas. Failures are kept as the banner error.
	FetchPizzas(ctx context.Context) error
	// CreatePizza creates a pizza and appends it to the cache
	CreatePizza(ctx context.Context, req models.CreatePizzaRequest) (*models.Pizza, error)
	// UpdatePizza updates a pizza and replaces it in the cache
	UpdatePizza(ctx context.Context, id int, req models.UpdatePizzaRequest) (*models.Pizza, error)
	// DeletePizza deletes a pizza. Failures are notified and logged, never returned.
	DeletePizza(ctx context.Context, id int) bool
}

// pizzaService is the implementation of the PizzaService interface
type pizzaService struct {
	store    store.Store
	api      PizzaAPI
	notifier notify.Notifier
	loading  *LoadingTracker
}

// NewPizzaService creates a new instance of PizzaService
func NewPizzaService(st store.Store, api PizzaAPI, notifier notify.Notifier, loading *LoadingTracker) PizzaService {
	if loading == nil {
		loading = NewLoadingTracker(st)
	}
	return &pizzaService{store: st, api: api, notifier: notifier, loading: loading}
}

func (s *pizzaService) FetchPizzas(ctx context.Context) error {
	s.loading.begin()
	defer s.loading.end()

	pizzas, err := s.api.ListPizzas(ctx)
	if err != nil {
		message := errorMessage(err, "Failed to fetch pizzas", "")
		s.store.Dispatch(store.SetError{Message: fetchErrorPrefix + message})
		s.notifier.Notify(notify.Failure("Error Loading Pizzas", message))
		return operationError("fetch pizzas", message, err)
	}

	items := make([]*models.Pizza, len(pizzas))
	for i := range pizzas {
		items[i] = &pizzas[i]
	}
	s.store.Dispatch(store.SetPizzas{Pizzas: items})
	return nil
}

func (s *pizzaService) CreatePizza(ctx context.Context, req models.CreatePizzaRequest) (*models.Pizza, error) {
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.Failure("Error Creating Pizza", err.Error()))
		return nil, operationError("create pizza", err.Error(), err)
	}

	s.loading.begin()
	defer s.loading.end()

	pizza, err := s.api.CreatePizza(ctx, req)
	if err != nil {
		message := errorMessage(err, "Failed to create pizza", "Validation error - pizza name may already exist")
		s.notifier.Notify(notify.Failure("Error Creating Pizza", message))
		return nil, operationError("create pizza", message, err)
	}

	pizza = s.complete(ctx, pizza)
	s.store.Dispatch(store.AddPizza{Pizza: pizza})
	s.notifier.Notify(notify.Success("Success", "Pizza created successfully"))
	return pizza, nil
}

func (s *pizzaService) UpdatePizza(ctx context.Context, id int, req models.UpdatePizzaRequest) (*models.Pizza, error) {
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.Failure("Error Updating Pizza", err.Error()))
		return nil, operationError("update pizza", err.Error(), err)
	}

	s.loading.begin()
	defer s.loading.end()

	pizza, err := s.api.UpdatePizza(ctx, id, req)
	if err != nil {
		message := errorMessage(err, "Failed to update pizza", "Validation error - pizza name may already exist")
		s.notifier.Notify(notify.Failure("Error Updating Pizza", message))
		return nil, operationError("update pizza", message, err)
	}

	pizza = s.complete(ctx, pizza)
	s.store.Dispatch(store.UpdatePizza{Pizza: pizza})
	s.notifier.Notify(notify.Success("Success", "Pizza updated successfully"))
	return pizza, nil
}

func (s *pizzaService) DeletePizza(ctx context.Context, id int) bool {
	s.loading.begin()
	defer s.loading.end()

	if err := s.api.DeletePizza(ctx, id); err != nil {
		message := errorMessage(err, "Failed to delete pizza", "Cannot delete pizza - it may have dependencies")
		s.notifier.Notify(notify.Failure("Cannot Delete Pizza", message))
		log.WithError(err).WithFields(logrus.Fields{"pizza_id": id}).Error("Delete pizza error")
		return false
	}

	s.store.Dispatch(store.DeletePizza{ID: id})
	s.notifier.Notify(notify.Success("Success", "Pizza deleted successfully"))
	return true
}

// complete refetches a pizza whose write response carried toppings without their
// attributes. On failure the partial record is kept.
func (s *pizzaService) complete(ctx context.Context, pizza *models.Pizza) *models.Pizza {
	if !pizza.HasIncompleteToppings() {
		return pizza
	}

	full, err := s.api.GetPizza(ctx, pizza.ID)
	if err != nil {
		log.WithError(err).WithField("pizza_id", pizza.ID).Warn("Could not load full pizza details, keeping partial record")
		return pizza
	}
	return full
}
