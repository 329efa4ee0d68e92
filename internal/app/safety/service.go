package safety

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
)

const (
	DefaultSOSLocation = "Unknown"
	DefaultSOSMessage  = "Emergency assistance needed"

	// mockNearbyUsersNotified is the fixed fan-out reported for every alert.
	mockNearbyUsersNotified = 5
)

// Counter reports a store size.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// TripCounter reports total and still-open trip counts.
type TripCounter interface {
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}

// Service serves the mock safety features: OTP check, SOS alerts and the authority dashboard.
// SOS alerts are not stored and nobody is actually notified.
type Service struct {
	users      Counter
	trips      TripCounter
	touristIDs Counter
	clk        clockport.Clock

	newAlertID func() string
}

func NewService(users Counter, trips TripCounter, touristIDs Counter, clk clockport.Clock) *Service {
	return &Service{
		users:      users,
		trips:      trips,
		touristIDs: touristIDs,
		clk:        clk,
		newAlertID: uuid.NewString,
	}
}

// SetNewAlertIDForTest overrides alert ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewAlertIDForTest(fn func() string) {
	if fn != nil {
		s.newAlertID = fn
	}
}

// VerifyOTP accepts any code.
func (s *Service) VerifyOTP(_ context.Context, _ string) bool {
	return true
}

type SOSInput struct {
	Location string
	Message  string
}

func (s *Service) TriggerSOS(_ context.Context, user domain.UserID, in SOSInput) domain.SOSAlert {
	loc := strings.TrimSpace(in.Location)
	if loc == "" {
		loc = DefaultSOSLocation
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		msg = DefaultSOSMessage
	}
	return domain.SOSAlert{
		ID:                  s.newAlertID(),
		UserID:              user,
		Location:            loc,
		Message:             msg,
		Status:              domain.SOSStatusActive,
		CreatedAt:           s.clk.Now(),
		NearbyUsersNotified: mockNearbyUsersNotified,
		AuthoritiesNotified: true,
	}
}

func (s *Service) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	activeTrips, err := s.trips.CountActive(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	totalTrips, err := s.trips.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	verified, err := s.touristIDs.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{
		TotalUsers:       totalUsers,
		ActiveTrips:      activeTrips,
		TotalTrips:       totalTrips,
		EmergencyAlerts:  0,
		VerifiedTourists: verified,
		RiskAreas: []domain.RiskArea{
			{Location: "Downtown Area", RiskLevel: "Medium"},
			{Location: "Tourist District", RiskLevel: "Low"},
		},
	}, nil
}

// Heatmap returns fixed incident intensities for Delhi, Mumbai and Bangalore.
func (s *Service) Heatmap(_ context.Context) []domain.HeatPoint {
	return []domain.HeatPoint{
		{Lat: 28.6139, Lng: 77.2090, Intensity: 0.8},
		{Lat: 19.0760, Lng: 72.8777, Intensity: 0.6},
		{Lat: 12.9716, Lng: 77.5946, Intensity: 0.7},
	}
}
