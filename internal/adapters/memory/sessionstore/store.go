package sessionstore

import (
	"context"
	"sync"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/sessionstore"
)

// Store is an in-memory implementation of sessionstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[domain.SessionToken]domain.UserID
}

func NewStore() *Store {
	return &Store{
		m: make(map[domain.SessionToken]domain.UserID),
	}
}

func (s *Store) Put(ctx context.Context, token domain.SessionToken, userID domain.UserID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[token]; ok {
		return sessionstore.ErrTokenExists
	}
	s.m[token] = userID
	return nil
}

func (s *Store) Resolve(ctx context.Context, token domain.SessionToken) (domain.UserID, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.m[token]
	return id, ok, nil
}
