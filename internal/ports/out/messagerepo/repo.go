package messagerepo

import (
	"context"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// Message is the persistence shape of a trip chat message.
type Message struct {
	ID         domain.MessageID
	TripID     domain.TripID
	SenderID   domain.UserID
	SenderName string
	Content    string
	SentAt     time.Time
}

// Repository stores per-trip, append-only message logs.
type Repository interface {
	// Append adds m to the end of its trip's log.
	Append(ctx context.Context, m Message) error
	// ListByTrip returns the trip's messages in append order. A trip without messages
	// yields an empty, non-nil slice.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]Message, error)
}
