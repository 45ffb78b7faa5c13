package cart

import (
	"context"
	"errors"
	"sync"
)

var ErrMissingSession = errors.New("missing session id")

// Sessions lazily opens one Store per session id and keeps it for reuse.
// It assumes a single process owns the sessions it serves.
type Sessions struct {
	mu     sync.Mutex
	stores map[string]*Store
	open   func(sessionID string) Persistence
}

func NewSessions(open func(sessionID string) Persistence) *Sessions {
	return &Sessions{
		stores: make(map[string]*Store),
		open:   open,
	}
}

func (s *Sessions) Get(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores[sessionID]; ok {
		return st, nil
	}

	st, err := Open(ctx, s.open(sessionID))
	if err != nil {
		return nil, err
	}
	s.stores[sessionID] = st
	return st, nil
}
