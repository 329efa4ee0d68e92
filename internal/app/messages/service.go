package messages

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/messagerepo"
)

// MembershipChecker answers whether a user participates in a trip.
type MembershipChecker interface {
	IsParticipant(ctx context.Context, tripID domain.TripID, userID domain.UserID) (bool, error)
}

// SenderLookup resolves the display name captured on each message. ok is false for unknown users.
type SenderLookup interface {
	DisplayName(ctx context.Context, id domain.UserID) (string, bool, error)
}

type Service struct {
	repo    messagerepo.Repository
	members MembershipChecker
	senders SenderLookup
	clk     clockport.Clock

	// mu serializes id generation, timestamping and append so that both ids and
	// timestamps are non-decreasing in send order.
	mu      sync.Mutex
	last    time.Time
	entropy io.Reader
}

func NewService(repo messagerepo.Repository, members MembershipChecker, senders SenderLookup, clk clockport.Clock) *Service {
	return &Service{
		repo:    repo,
		members: members,
		senders: senders,
		clk:     clk,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// ListMessages returns the trip's messages in send order. Callers outside the trip, including
// callers naming an unknown trip, are forbidden.
func (s *Service) ListMessages(ctx context.Context, caller domain.UserID, tripID domain.TripID) ([]domain.Message, error) {
	if err := s.requireParticipant(ctx, caller, tripID); err != nil {
		return nil, err
	}
	ms, err := s.repo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomain(m))
	}
	return out, nil
}

func (s *Service) SendMessage(ctx context.Context, caller domain.UserID, tripID domain.TripID, content string) (domain.Message, error) {
	if err := s.requireParticipant(ctx, caller, tripID); err != nil {
		return domain.Message{}, err
	}
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, apperr.Validation("invalid content", "content", "must be non-empty")
	}

	senderName, ok, err := s.senders.DisplayName(ctx, caller)
	if err != nil {
		return domain.Message{}, err
	}
	if !ok {
		return domain.Message{}, &apperr.Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	if now.Before(s.last) {
		now = s.last
	}
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return domain.Message{}, fmt.Errorf("generate message id: %w", err)
	}
	m := messagerepo.Message{
		ID:         domain.MessageID(id.String()),
		TripID:     tripID,
		SenderID:   caller,
		SenderName: senderName,
		Content:    content,
		SentAt:     now,
	}
	if err := s.repo.Append(ctx, m); err != nil {
		return domain.Message{}, err
	}
	s.last = now
	return toDomain(m), nil
}

func (s *Service) requireParticipant(ctx context.Context, caller domain.UserID, tripID domain.TripID) error {
	ok, err := s.members.IsParticipant(ctx, tripID, caller)
	if err != nil {
		return err
	}
	if !ok {
		return &apperr.Error{Status: 403, Code: "NOT_TRIP_PARTICIPANT", Message: "not a participant of this trip"}
	}
	return nil
}

func toDomain(m messagerepo.Message) domain.Message {
	return domain.Message{
		ID:         m.ID,
		TripID:     m.TripID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}
