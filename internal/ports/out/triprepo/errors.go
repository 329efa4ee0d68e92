package triprepo

import "errors"

var (
	ErrNotFound      = errors.New("trip not found")
	ErrAlreadyExists = errors.New("trip already exists")

	// ErrAlreadyParticipant indicates the user is already in the trip's participant list.
	ErrAlreadyParticipant = errors.New("already a trip participant")
	// ErrFull indicates the trip has reached its participant capacity.
	ErrFull = errors.New("trip is full")
)
