package authz

import (
	"context"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// SessionResolver resolves bearer tokens to users.
type SessionResolver interface {
	Resolve(ctx context.Context, tok domain.SessionToken) (domain.UserID, bool)
}

// MembershipChecker answers whether a user participates in a trip.
type MembershipChecker interface {
	IsParticipant(ctx context.Context, tripID domain.TripID, userID domain.UserID) (bool, error)
}

// Gate authenticates callers and checks trip membership before any trip-scoped operation.
type Gate struct {
	sessions SessionResolver
	trips    MembershipChecker
}

func NewGate(sessions SessionResolver, trips MembershipChecker) *Gate {
	return &Gate{sessions: sessions, trips: trips}
}

func (g *Gate) Authorize(ctx context.Context, tok domain.SessionToken) (domain.UserID, error) {
	id, ok := g.sessions.Resolve(ctx, tok)
	if !ok {
		return "", &apperr.Error{Status: 401, Code: "UNAUTHORIZED", Message: "invalid or missing token"}
	}
	return id, nil
}

// AuthorizeMember authenticates tok and requires the caller to be a participant of tripID.
// An unknown trip is reported as forbidden, not as not-found.
func (g *Gate) AuthorizeMember(ctx context.Context, tok domain.SessionToken, tripID domain.TripID) (domain.UserID, error) {
	id, err := g.Authorize(ctx, tok)
	if err != nil {
		return "", err
	}
	ok, err := g.trips.IsParticipant(ctx, tripID, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &apperr.Error{Status: 403, Code: "NOT_TRIP_PARTICIPANT", Message: "not a participant of this trip"}
	}
	return id, nil
}
