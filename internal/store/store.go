package store

import (
	"sync"
)

// Listener is notified with the new state after every dispatch
type Listener func(State)

// Store is the single cache container of the console
type Store interface {
	GetState() State
	Dispatch(action Action)
	Subscribe(listener Listener) (unsubscribe func())
}

type store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New returns a store holding the initial empty state
func New() Store {
	return &store{
		state:     InitialState(),
		listeners: make(map[int]Listener),
	}
}

// GetState returns the current state. Its slices are shared and must be treated as read-only.
func (s *store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	state := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

func (s *store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
