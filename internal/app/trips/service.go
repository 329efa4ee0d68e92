package trips

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/triprepo"
)

// CreatorLookup resolves the creator snapshot shown on listings. ok is false for unknown users.
type CreatorLookup interface {
	Creator(ctx context.Context, id domain.UserID) (domain.CreatorSummary, bool, error)
}

type Service struct {
	trips    triprepo.Repository
	creators CreatorLookup
	clk      clockport.Clock

	newTripID func() domain.TripID
}

func NewService(tripsRepo triprepo.Repository, creators CreatorLookup, clk clockport.Clock) *Service {
	return &Service{
		trips:    tripsRepo,
		creators: creators,
		clk:      clk,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

func (s *Service) CreateTrip(ctx context.Context, creator domain.UserID, in CreateTripInput) (domain.Trip, error) {
	// Validate caller exists.
	if _, ok, err := s.creators.Creator(ctx, creator); err != nil {
		return domain.Trip{}, err
	} else if !ok {
		return domain.Trip{}, apperr.Validation("invalid caller", "userId", "caller does not exist")
	}

	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		return domain.Trip{}, apperr.Validation("invalid title", "title", "must be non-empty")
	}
	destination := domain.NormalizeHumanName(in.Destination)
	if destination == "" {
		return domain.Trip{}, apperr.Validation("invalid destination", "destination", "must be non-empty")
	}

	capacity := domain.DefaultMaxParticipants
	if in.MaxParticipants != nil {
		capacity = *in.MaxParticipants
	}
	if capacity <= 0 {
		return domain.Trip{}, apperr.Validation("invalid max_participants", "max_participants", "must be at least 1")
	}

	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.Trip{}, apperr.Validation("invalid dates", "end_date", "must be on or after start_date")
	}

	id := s.newTripID()
	t := triprepo.Trip{
		ID:              id,
		Status:          triprepo.StatusOpen,
		Title:           title,
		Destination:     destination,
		Description:     strings.TrimSpace(in.Description),
		StartDate:       cloneTimePtr(in.StartDate),
		EndDate:         cloneTimePtr(in.EndDate),
		MaxParticipants: capacity,
		CreatorID:       creator,
		Participants:    []domain.UserID{creator},
		CreatedAt:       s.clk.Now(),
	}
	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Trip{}, &apperr.Error{Status: 409, Code: "TRIP_ID_CONFLICT", Message: "trip id conflict"}
		}
		return domain.Trip{}, err
	}
	return toDomain(t), nil
}

// ListTrips returns every trip, oldest first, each with a creator snapshot read at call time.
func (s *Service) ListTrips(ctx context.Context) ([]domain.TripListing, error) {
	ts, err := s.trips.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TripListing, 0, len(ts))
	creators := make(map[domain.UserID]*domain.CreatorSummary)
	for _, t := range ts {
		c, seen := creators[t.CreatorID]
		if !seen {
			c, err = s.loadCreator(ctx, t.CreatorID)
			if err != nil {
				return nil, err
			}
			creators[t.CreatorID] = c
		}
		out = append(out, domain.TripListing{Trip: toDomain(t), Creator: c})
	}
	return out, nil
}

// JoinTrip appends user to the trip's participants. A repeat join is an error, not a no-op.
func (s *Service) JoinTrip(ctx context.Context, user domain.UserID, tripID domain.TripID) (domain.Trip, error) {
	t, err := s.trips.AddParticipant(ctx, tripID, user)
	if err != nil {
		switch {
		case errors.Is(err, triprepo.ErrNotFound):
			return domain.Trip{}, tripNotFound()
		case errors.Is(err, triprepo.ErrAlreadyParticipant):
			return domain.Trip{}, &apperr.Error{Status: 409, Code: "ALREADY_PARTICIPANT", Message: "already joined this trip"}
		case errors.Is(err, triprepo.ErrFull):
			return domain.Trip{}, &apperr.Error{Status: 409, Code: "TRIP_FULL", Message: "trip is full"}
		default:
			return domain.Trip{}, err
		}
	}
	return toDomain(t), nil
}

// IsParticipant reports trip membership. An unknown trip yields false.
func (s *Service) IsParticipant(ctx context.Context, tripID domain.TripID, user domain.UserID) (bool, error) {
	return s.trips.IsParticipant(ctx, tripID, user)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.trips.Count(ctx)
}

// CountActive counts trips still open for joining.
func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.trips.CountByStatus(ctx, triprepo.StatusOpen)
}

func (s *Service) loadCreator(ctx context.Context, id domain.UserID) (*domain.CreatorSummary, error) {
	c, ok, err := s.creators.Creator(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func tripNotFound() *apperr.Error {
	return &apperr.Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
}

func toDomain(t triprepo.Trip) domain.Trip {
	return domain.Trip{
		ID:              t.ID,
		Title:           t.Title,
		Destination:     t.Destination,
		Description:     t.Description,
		StartDate:       cloneTimePtr(t.StartDate),
		EndDate:         cloneTimePtr(t.EndDate),
		MaxParticipants: t.MaxParticipants,
		CreatorID:       t.CreatorID,
		Participants:    append([]domain.UserID(nil), t.Participants...),
		Status:          domain.TripStatus(t.Status),
		CreatedAt:       t.CreatedAt,
	}
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
