package touristidrepo

import (
	"context"
	"errors"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

var ErrNotFound = errors.New("tourist id not found")

type Record struct {
	UserID         domain.UserID
	TouristID      string
	BlockchainHash string
	Verified       bool
	CreatedAt      time.Time
}

// Repository stores at most one tourist id per user.
type Repository interface {
	// CreateIfAbsent stores rec unless the user already has a record. It returns the stored
	// record and whether rec was the one stored.
	CreateIfAbsent(ctx context.Context, rec Record) (stored Record, created bool, err error)
	GetByUserID(ctx context.Context, userID domain.UserID) (Record, error)
	Count(ctx context.Context) (int, error)
}
