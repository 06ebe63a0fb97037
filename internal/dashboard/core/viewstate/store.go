// Package viewstate holds the dashboard's in-memory projection of the remote
// pending-orders list and notification feed.
//
// Each source is replaced as a whole value; slices handed in are owned by the
// store afterwards and slices handed out must not be modified.
package viewstate

import (
	"sync"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
)

type Store struct {
	mu    sync.RWMutex
	state entity.ViewState
}

func New() *Store {
	return &Store{}
}

func (s *Store) ReplacePending(pending []entity.PendingOrder) {
	s.mu.Lock()
	s.state.Pending = pending
	s.mu.Unlock()
}

func (s *Store) ReplaceNotifications(notifications []entity.Notification) {
	s.mu.Lock()
	s.state.Notifications = notifications
	s.mu.Unlock()
}

// MarkSynced records the time of the latest at least partially successful tick.
func (s *Store) MarkSynced(at time.Time) {
	s.mu.Lock()
	s.state.LastSync = &at
	s.mu.Unlock()
}

// Snapshot returns the current value.
func (s *Store) Snapshot() entity.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Notifications() []entity.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Notifications
}
