package domain

import "time"

type TripStatus string

// TripStatusOpen is the only status ever assigned; trips have no further lifecycle.
const TripStatusOpen TripStatus = "open"

// DefaultMaxParticipants applies when a trip is created without an explicit capacity.
const DefaultMaxParticipants = 4

// Trip is a group trip. Participants holds the creator first, followed by joiners in
// arrival order; it never exceeds MaxParticipants and never contains duplicates.
type Trip struct {
	ID          TripID
	Title       string
	Destination string
	Description string

	StartDate *time.Time // date-only semantics at the edges
	EndDate   *time.Time // date-only semantics at the edges

	MaxParticipants int
	CreatorID       UserID
	Participants    []UserID
	Status          TripStatus

	CreatedAt time.Time
}

// TripListing is a trip enriched with its creator snapshot, resolved at read time.
// Creator is nil when the creator record cannot be found.
type TripListing struct {
	Trip
	Creator *CreatorSummary
}
