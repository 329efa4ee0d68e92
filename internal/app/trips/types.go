package trips

import "time"

type CreateTripInput struct {
	Title       string
	Destination string
	Description string

	// StartDate and EndDate carry date-only values (midnight UTC); nil means unknown.
	StartDate *time.Time
	EndDate   *time.Time

	// MaxParticipants nil means domain.DefaultMaxParticipants.
	MaxParticipants *int
}
