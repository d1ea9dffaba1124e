package app

import (
	"sync"

	"track/internal/domain"
)

// Handle serializes access to the store and gateway. The CLI process
// holds it for one command; the dashboard server and the change
// detector share one for the process lifetime, so database writes and
// git mutations never interleave.
type Handle struct {
	mu    sync.Mutex
	store domain.Store
	git   domain.Gateway
}

// NewHandle creates a handle around the given store and gateway.
func NewHandle(store domain.Store, git domain.Gateway) *Handle {
	return &Handle{store: store, git: git}
}

// Do runs fn with exclusive access to the store and gateway.
func (h *Handle) Do(fn func(store domain.Store, git domain.Gateway) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.store, h.git)
}
