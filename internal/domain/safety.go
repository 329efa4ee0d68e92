package domain

import "time"

// TouristID is the mock blockchain-backed identity issued on first profile completion.
type TouristID struct {
	ID             string
	UserID         UserID
	BlockchainHash string
	Verified       bool
	CreatedAt      time.Time
}

type SOSStatus string

const SOSStatusActive SOSStatus = "active"

// SOSAlert is a mock emergency alert. Alerts are not stored.
type SOSAlert struct {
	ID        string
	UserID    UserID
	Location  string
	Message   string
	Status    SOSStatus
	CreatedAt time.Time

	NearbyUsersNotified int
	AuthoritiesNotified bool
}

type RiskArea struct {
	Location  string
	RiskLevel string
}

// DashboardStats is the authority dashboard summary.
type DashboardStats struct {
	TotalUsers       int
	ActiveTrips      int
	TotalTrips       int
	EmergencyAlerts  int
	VerifiedTourists int
	RiskAreas        []RiskArea
}

type HeatPoint struct {
	Lat       float64
	Lng       float64
	Intensity float64
}
