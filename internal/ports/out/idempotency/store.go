package idempotency

import (
	"context"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes:
// key + route + user + request body hash.
// Route is the HTTP method's path template (e.g. "/api/messages/{tripID}") with the
// concrete trip id folded into BodyHash by the caller.
type Fingerprint struct {
	Key      Key
	User     domain.UserID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying safe responses on retries.
//
// Records are kept until pruned; PruneBefore drops every record created before cutoff
// and reports how many were removed.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
}
