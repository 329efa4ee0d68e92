package touristidrepo

import (
	"context"
	"sync"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/touristidrepo"
)

// Repo is an in-memory implementation of touristidrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]touristidrepo.Record
}

func NewRepo() *Repo {
	return &Repo{
		byUser: make(map[domain.UserID]touristidrepo.Record),
	}
}

func (r *Repo) CreateIfAbsent(ctx context.Context, rec touristidrepo.Record) (touristidrepo.Record, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUser[rec.UserID]; ok {
		return existing, false, nil
	}
	r.byUser[rec.UserID] = rec
	return rec, true, nil
}

func (r *Repo) GetByUserID(ctx context.Context, userID domain.UserID) (touristidrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byUser[userID]
	if !ok {
		return touristidrepo.Record{}, touristidrepo.ErrNotFound
	}
	return rec, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser), nil
}
