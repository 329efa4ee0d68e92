package domain

import "time"

// Message is an immutable chat message posted to a trip.
//
// SenderName is captured when the message is sent and is not re-resolved afterwards,
// so later display name changes do not alter history.
type Message struct {
	ID         MessageID
	TripID     TripID
	SenderID   UserID
	SenderName string
	Content    string
	SentAt     time.Time
}
