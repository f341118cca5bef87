// Package memstore provides a process-scoped token store. Tokens kept here
// survive only for the lifetime of the program, mirroring session storage
// in the browser client.
package memstore

import (
	"context"
	"sync"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/ports"
)

// Store is an in-memory token store safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	pair domainauth.TokenPair
	set  bool
}

// New creates an empty in-memory token store.
func New() *Store {
	return &Store{}
}

func (s *Store) Save(_ context.Context, pair domainauth.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.set = true
	return nil
}

func (s *Store) Load(_ context.Context) (domainauth.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || s.pair.Empty() {
		return domainauth.TokenPair{}, ports.ErrNoToken
	}
	return s.pair, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = domainauth.TokenPair{}
	s.set = false
	return nil
}
