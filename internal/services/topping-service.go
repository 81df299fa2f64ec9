package services

import (
	"context"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/sirupsen/logrus"
)

// ToppingService runs topping operations against the backend and keeps the cache in sync
type ToppingService interface {
	// FetchToppings replaces the cached toppings. Failures are kept as the banner error.
	FetchToppings(ctx context.Context) error
	// CreateTopping creates a topping and appends it to the cache
	CreateTopping(ctx context.Context, req models.CreateToppingRequest) (*models.Topping, error)
	// UpdateTopping updates a topping and replaces it in the cache
	UpdateTopping(ctx context.Context, id int, req models.UpdateToppingRequest) (*models.Topping, error)
	// DeleteTopping deletes a topping. Failures are notified and logged, never returned.
	DeleteTopping(ctx context.Context, id int) bool
}

type toppingService struct {
	store    store.Store
	api      ToppingAPI
	notifier notify.Notifier
	loading  *LoadingTracker
}

// NewToppingService creates a new instance of ToppingService
func NewToppingService(st store.Store, api ToppingAPI, notifier notify.Notifier, loading *LoadingTracker) ToppingService {
	if loading == nil {
		loading = NewLoadingTracker(st)
	}
	return &toppingService{store: st, api: api, notifier: notifier, loading: loading}
}

func (s *toppingService) FetchToppings(ctx context.Context) error {
	s.loading.begin()
	defer s.loading.end()

	toppings, err := s.api.ListToppings(ctx)
	if err != nil {
		message := errorMessage(err, "Failed to fetch toppings", "")
		s.store.Dispatch(store.SetError{Message: fetchErrorPrefix + message})
		s.notifier.Notify(notify.Failure("Error Loading Toppings", message))
		return operationError("fetch toppings", message, err)
	}

	items := make([]*models.Topping, len(toppings))
	for i := range toppings {
		items[i] = &toppings[i]
	}
	s.store.Dispatch(store.SetToppings{Toppings: items})
	return nil
}

func (s *toppingService) CreateTopping(ctx context.Context, req models.CreateToppingRequest) (*models.Topping, error) {
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.Failure("Error Creating Topping", err.Error()))
		return nil, operationError("create topping", err.Error(), err)
	}

	s.loading.begin()
	defer s.loading.end()

	topping, err := s.api.CreateTopping(ctx, req)
	if err != nil {
		message := errorMessage(err, "Failed to create topping", "Validation error - topping may already exist")
		s.notifier.Notify(notify.Failure("Error Creating Topping", message))
		return nil, operationError("create topping", message, err)
	}

	s.store.Dispatch(store.AddTopping{Topping: topping})
	s.notifier.Notify(notify.Success("Success", "Topping created successfully"))
	return topping, nil
}

func (s *toppingService) UpdateTopping(ctx context.Context, id int, req models.UpdateToppingRequest) (*models.Topping, error) {
	if err := req.Validate(); err != nil {
		s.notifier.Notify(notify.Failure("Error Updating Topping", err.Error()))
		return nil, operationError("update topping", err.Error(), err)
	}

	s.loading.begin()
	defer s.loading.end()

	topping, err := s.api.UpdateTopping(ctx, id, req)
	if err != nil {
		message := errorMessage(err, "Failed to update topping", "Validation error - topping name may already exist")
		s.notifier.Notify(notify.Failure("Error Updating Topping", message))
		return nil, operationError("update topping", message, err)
	}

	s.store.Dispatch(store.UpdateTopping{Topping: topping})
	s.notifier.Notify(notify.Success("Success", "Topping updated successfully"))
	return topping, nil
}

func (s *toppingService) DeleteTopping(ctx context.Context, id int) bool {
	s.loading.begin()
	defer s.loading.end()

	if err := s.api.DeleteTopping(ctx, id); err != nil {
		message := errorMessage(err, "Failed to delete topping", "Cannot delete topping - it may be in use by existing pizzas")
		s.notifier.Notify(notify.Failure("Cannot Delete Topping", message))
		log.WithError(err).WithFields(logrus.Fields{"topping_id": id}).Error("Delete topping error")
		return false
	}

	s.store.Dispatch(store.DeleteTopping{ID: id})
	s.notifier.Notify(notify.Success("Success", "Topping deleted successfully"))
	return true
}
