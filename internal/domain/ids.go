package domain

// UserID is the immutable identifier assigned to an account at registration.
type UserID string

// TripID is an internal identifier for a trip record.
type TripID string

// MessageID identifies a chat message. Message ids sort in send order within a trip.
type MessageID string

// SessionToken is an opaque bearer credential. It carries no information about the
// account it is bound to; only the session registry can resolve it.
type SessionToken string
