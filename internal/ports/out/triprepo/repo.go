package triprepo

import (
	"context"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

type Status string

const StatusOpen Status = "open"

// Trip is the persistence shape used by the trip repository.
// It is not an HTTP DTO.
type Trip struct {
	ID domain.TripID

	Status Status

	Title       string
	Destination string
	Description string

	// StartDate and EndDate are nil when unknown.
	StartDate *time.Time
	EndDate   *time.Time

	MaxParticipants int
	CreatorID       domain.UserID
	// Participants is ordered by arrival; the creator is always first.
	Participants []domain.UserID

	CreatedAt time.Time
}

// Repository provides access to stored trips.
//
// Result ordering expectations:
// - List returns trips ordered by CreatedAt ascending, then ID, to keep behavior deterministic.
type Repository interface {
	Create(ctx context.Context, t Trip) error

	GetByID(ctx context.Context, id domain.TripID) (Trip, error)
	List(ctx context.Context) ([]Trip, error)

	// AddParticipant appends userID to the trip's participants as one atomic step.
	// Checks run in this order: ErrNotFound, ErrAlreadyParticipant, ErrFull.
	// On error the stored trip is unchanged. On success the updated trip is returned.
	AddParticipant(ctx context.Context, id domain.TripID, userID domain.UserID) (Trip, error)

	// IsParticipant reports whether userID is in the trip's participant list.
	// An unknown trip yields false and no error.
	IsParticipant(ctx context.Context, id domain.TripID, userID domain.UserID) (bool, error)

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}
