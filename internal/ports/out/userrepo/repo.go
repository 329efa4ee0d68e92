package userrepo

import (
	"context"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// User is the persistence shape used by the user repository.
// It is an internal record, not an HTTP DTO.
type User struct {
	ID domain.UserID
	// AccountKey is the unique, case-sensitive login handle.
	AccountKey string
	// CredentialDigest is the one-way digest of the login credential. The raw credential is never stored.
	CredentialDigest string

	DisplayName string
	Phone       *string

	Bio              *string
	Location         *string
	Interests        []string
	EmergencyContact *string

	ProfileComplete bool
	Verified        bool

	CreatedAt time.Time
	// UpdatedAt is nil until the first profile update.
	UpdatedAt *time.Time
}

// Repository provides access to stored users.
//
// Implementations keep two indexes: account key -> user (uniqueness of the login handle)
// and id -> user (direct lookups when resolving display names).
type Repository interface {
	// Create stores a new user. It fails with ErrAccountKeyTaken if the account key is in use
	// and with ErrAlreadyExists if the ID is in use.
	Create(ctx context.Context, u User) error
	// Update replaces an existing user. ID and AccountKey are immutable.
	Update(ctx context.Context, u User) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetByAccountKey(ctx context.Context, accountKey string) (User, error)

	Count(ctx context.Context) (int, error)
}
