package messagerepo

import (
	"context"
	"sync"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/messagerepo"
)

// Repo is an in-memory implementation of messagerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byTrip map[domain.TripID][]messagerepo.Message
	ids    map[domain.MessageID]struct{}
}

func NewRepo() *Repo {
	return &Repo{
		byTrip: make(map[domain.TripID][]messagerepo.Message),
		ids:    make(map[domain.MessageID]struct{}),
	}
}

func (r *Repo) Append(ctx context.Context, m messagerepo.Message) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[m.ID]; ok {
		return messagerepo.ErrAlreadyExists
	}
	r.ids[m.ID] = struct{}{}
	r.byTrip[m.TripID] = append(r.byTrip[m.TripID], m)
	return nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]messagerepo.Message, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	log := r.byTrip[tripID]
	out := make([]messagerepo.Message, len(log))
	copy(out, log)
	return out, nil
}
