package services

import (
	"context"
	"sync"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
)

// DashboardState is the dashboard's own state; it is not part of the catalog cache
type DashboardState struct {
	Data        *models.DashboardData `json:"data"`
	Loading     bool                  `json:"loading"`
	Error       string                `json:"error,omitempty"`
	LastUpdated time.Time             `json:"last_updated,omitempty"`
}

// DashboardService loads the dashboard statistics
type DashboardService interface {
	FetchDashboard(ctx context.Context) error
	State() DashboardState
}

type dashboardService struct {
	api      DashboardAPI
	notifier notify.Notifier
	now      func() time.Time

	mu    sync.Mutex
	state DashboardState
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(api DashboardAPI, notifier notify.Notifier) DashboardService {
	return &dashboardService{api: api, notifier: notifier, now: time.Now}
}

func (s *dashboardService) State() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *dashboardService) update(fn func(*DashboardState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *dashboardService) FetchDashboard(ctx context.Context) error {
	s.update(func(st *DashboardState) {
		st.Loading = true
		st.Error = ""
	})
	defer s.update(func(st *DashboardState) { st.Loading = false })

	data, err := s.api.Dashboard(ctx)
	if err != nil {
		message := errorMessage(err, "Failed to fetch dashboard data", "")
		s.update(func(st *DashboardState) { st.Error = fetchErrorPrefix + message })
		s.notifier.Notify(notify.Failure("Error", message))
		return operationError("fetch dashboard", message, err)
	}

	s.update(func(st *DashboardState) {
		st.Data = data
		st.LastUpdated = s.now()
	})
	return nil
}
