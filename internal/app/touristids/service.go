package touristids

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/touristidrepo"
)

// Service issues mock blockchain-backed tourist ids. Nothing is written to any chain; the
// hash is random.
type Service struct {
	repo touristidrepo.Repository
	clk  clockport.Clock

	newUUID func() uuid.UUID
}

func NewService(repo touristidrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:    repo,
		clk:     clk,
		newUUID: uuid.New,
	}
}

// SetNewUUIDForTest overrides the randomness behind ids and hashes for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUUIDForTest(fn func() uuid.UUID) {
	if fn != nil {
		s.newUUID = fn
	}
}

// IssueOnce returns the user's tourist id, creating it on first call. Later calls return the
// original record unchanged.
func (s *Service) IssueOnce(ctx context.Context, userID domain.UserID) (domain.TouristID, error) {
	if existing, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return toDomain(existing), nil
	} else if !errors.Is(err, touristidrepo.ErrNotFound) {
		return domain.TouristID{}, err
	}

	idHex := hexOf(s.newUUID())
	hashHex := hexOf(s.newUUID())
	rec := touristidrepo.Record{
		UserID:         userID,
		TouristID:      "TID-" + strings.ToUpper(idHex[:8]),
		BlockchainHash: "0x" + hashHex,
		Verified:       true,
		CreatedAt:      s.clk.Now(),
	}
	stored, _, err := s.repo.CreateIfAbsent(ctx, rec)
	if err != nil {
		return domain.TouristID{}, err
	}
	return toDomain(stored), nil
}

func (s *Service) Get(ctx context.Context, userID domain.UserID) (domain.TouristID, error) {
	rec, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, touristidrepo.ErrNotFound) {
			return domain.TouristID{}, &apperr.Error{
				Status:  404,
				Code:    "TOURIST_ID_NOT_FOUND",
				Message: "Tourist ID not found. Complete your profile first.",
			}
		}
		return domain.TouristID{}, err
	}
	return toDomain(rec), nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func hexOf(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}

func toDomain(r touristidrepo.Record) domain.TouristID {
	return domain.TouristID{
		ID:             r.TouristID,
		UserID:         r.UserID,
		BlockchainHash: r.BlockchainHash,
		Verified:       r.Verified,
		CreatedAt:      r.CreatedAt,
	}
}
