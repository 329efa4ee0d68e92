package sessionstore

import (
	"context"
	"errors"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// ErrTokenExists indicates the token is already bound to a user.
var ErrTokenExists = errors.New("session token already exists")

// Store binds opaque session tokens to users for the lifetime of the process.
// There is no expiry and no revocation.
type Store interface {
	// Put binds token to userID. It fails with ErrTokenExists if the token is already bound.
	Put(ctx context.Context, token domain.SessionToken, userID domain.UserID) error
	// Resolve returns the user bound to token. ok is false when the token is unknown.
	Resolve(ctx context.Context, token domain.SessionToken) (userID domain.UserID, ok bool, err error)
}
