package domain

import "time"

// User is the domain representation of an account and its profile.
//
// AccountKey is the login handle (an email address in the client) and is compared
// case-sensitively. The credential digest is deliberately absent: it never leaves the
// user repository.
type User struct {
	ID         UserID
	AccountKey string

	DisplayName string
	Phone       *string

	Bio              *string
	Location         *string
	Interests        []string
	EmergencyContact *string

	ProfileComplete bool
	Verified        bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CreatorSummary is the creator snapshot attached to trip listings.
type CreatorSummary struct {
	Name       string
	AccountKey string
}
