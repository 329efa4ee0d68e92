package triprepo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use: every join runs its capacity and uniqueness checks
// and the append under the same write lock.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TripID]triprepo.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]triprepo.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	if t.ID == "" {
		return triprepo.ErrAlreadyExists // treat empty ID as invalid for now
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) List(ctx context.Context) ([]triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]triprepo.Trip, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, cloneTrip(t))
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) AddParticipant(ctx context.Context, id domain.TripID, userID domain.UserID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	if slices.Contains(t.Participants, userID) {
		return triprepo.Trip{}, triprepo.ErrAlreadyParticipant
	}
	if len(t.Participants) >= t.MaxParticipants {
		return triprepo.Trip{}, triprepo.ErrFull
	}

	// Build a fresh slice so readers holding an earlier clone never share the backing array.
	next := make([]domain.UserID, 0, len(t.Participants)+1)
	next = append(next, t.Participants...)
	t.Participants = append(next, userID)
	r.byID[id] = t
	return cloneTrip(t), nil
}

func (r *Repo) IsParticipant(ctx context.Context, id domain.TripID, userID domain.UserID) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	return slices.Contains(t.Participants, userID), nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *Repo) CountByStatus(ctx context.Context, status triprepo.Status) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.byID {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

func cloneTrip(t triprepo.Trip) triprepo.Trip {
	cp := t
	if t.Participants != nil {
		cp.Participants = append([]domain.UserID(nil), t.Participants...)
	}
	cp.StartDate = cloneTimePtr(t.StartDate)
	cp.EndDate = cloneTimePtr(t.EndDate)
	return cp
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// sortTrips orders by CreatedAt ascending with ID as the tie-breaker.
func sortTrips(ts []triprepo.Trip) {
	sort.Slice(ts, func(i, j int) bool {
		a := ts[i]
		b := ts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}
