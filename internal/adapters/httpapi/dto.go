package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// Requests.

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,max=254"`
	Password string  `json:"password" validate:"required"`
	Name     string  `json:"name" validate:"required,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type MockOTPRequest struct {
	Code string `json:"code,omitempty"`
}

// UpdateProfileRequest distinguishes omitted fields from explicit nulls.
type UpdateProfileRequest struct {
	Name             nullable.Nullable[string]   `json:"name,omitempty"`
	Phone            nullable.Nullable[string]   `json:"phone,omitempty"`
	Bio              nullable.Nullable[string]   `json:"bio,omitempty"`
	Location         nullable.Nullable[string]   `json:"location,omitempty"`
	Interests        nullable.Nullable[[]string] `json:"interests,omitempty"`
	EmergencyContact nullable.Nullable[string]   `json:"emergency_contact,omitempty"`
}

type CreateTripRequest struct {
	Title           string              `json:"title" validate:"required,max=200"`
	Destination     string              `json:"destination" validate:"required,max=200"`
	Description     string              `json:"description,omitempty" validate:"max=5000"`
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	MaxParticipants *int                `json:"max_participants,omitempty"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"max=5000"`
}

type SOSRequest struct {
	Location string `json:"location,omitempty" validate:"max=500"`
	Message  string `json:"message,omitempty" validate:"max=2000"`
}

// Responses.

type MessageResponse struct {
	Message string `json:"message"`
}

type SessionUser struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProfileComplete bool   `json:"profile_complete"`
}

type SessionResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    SessionUser `json:"user"`
}

type MockOTPResponse struct {
	Message  string `json:"message"`
	Verified bool   `json:"verified"`
}

type Profile struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Phone            *string    `json:"phone"`
	Bio              *string    `json:"bio"`
	Location         *string    `json:"location"`
	Interests        []string   `json:"interests"`
	EmergencyContact *string    `json:"emergency_contact"`
	ProfileComplete  bool       `json:"profile_complete"`
	Verified         bool       `json:"verified"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

type Creator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Trip struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Destination     string              `json:"destination"`
	StartDate       *openapi_types.Date `json:"start_date"`
	EndDate         *openapi_types.Date `json:"end_date"`
	Description     string              `json:"description"`
	MaxParticipants int                 `json:"max_participants"`
	CreatorID       string              `json:"creator_id"`
	Participants    []string            `json:"participants"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	Creator         *Creator            `json:"creator,omitempty"`
}

type CreateTripResponse struct {
	Message string `json:"message"`
	TripID  string `json:"trip_id"`
	Trip    Trip   `json:"trip"`
}

type JoinTripResponse struct {
	Message string `json:"message"`
	Trip    Trip   `json:"trip"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type SendMessageResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
}

type SOSResponse struct {
	Message             string `json:"message"`
	AlertID             string `json:"alert_id"`
	Location            string `json:"location"`
	Status              string `json:"status"`
	NearbyUsersNotified int    `json:"nearby_users_notified"`
	AuthoritiesNotified bool   `json:"authorities_notified"`
}

type TouristID struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	BlockchainHash string    `json:"blockchain_hash"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
}

type RiskArea struct {
	Location  string `json:"location"`
	RiskLevel string `json:"risk_level"`
}

type DashboardStats struct {
	TotalUsers       int        `json:"total_users"`
	ActiveTrips      int        `json:"active_trips"`
	TotalTrips       int        `json:"total_trips"`
	EmergencyAlerts  int        `json:"emergency_alerts"`
	VerifiedTourists int        `json:"verified_tourists"`
	RiskAreas        []RiskArea `json:"risk_areas"`
}

type HeatPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

// Mapping helpers.

func toSessionResponse(msg string, u domain.User, tok domain.SessionToken) SessionResponse {
	return SessionResponse{
		Message: msg,
		Token:   string(tok),
		User: SessionUser{
			ID:              string(u.ID),
			Email:           u.AccountKey,
			Name:            u.DisplayName,
			ProfileComplete: u.ProfileComplete,
		},
	}
}

func toProfile(u domain.User) Profile {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return Profile{
		ID:               string(u.ID),
		Email:            u.AccountKey,
		Name:             u.DisplayName,
		Phone:            u.Phone,
		Bio:              u.Bio,
		Location:         u.Location,
		Interests:        interests,
		EmergencyContact: u.EmergencyContact,
		ProfileComplete:  u.ProfileComplete,
		Verified:         u.Verified,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toTrip(t domain.Trip, creator *domain.CreatorSummary) Trip {
	ps := make([]string, 0, len(t.Participants))
	for _, p := range t.Participants {
		ps = append(ps, string(p))
	}
	out := Trip{
		ID:              string(t.ID),
		Title:           t.Title,
		Destination:     t.Destination,
		StartDate:       dateFromTime(t.StartDate),
		EndDate:         dateFromTime(t.EndDate),
		Description:     t.Description,
		MaxParticipants: t.MaxParticipants,
		CreatorID:       string(t.CreatorID),
		Participants:    ps,
		Status:          string(t.Status),
		CreatedAt:       t.CreatedAt,
	}
	if creator != nil {
		out.Creator = &Creator{Name: creator.Name, Email: creator.AccountKey}
	}
	return out
}

func toMessage(m domain.Message) Message {
	return Message{
		ID:         string(m.ID),
		SenderID:   string(m.SenderID),
		SenderName: m.SenderName,
		Content:    m.Content,
		Timestamp:  m.SentAt,
	}
}

func dateFromTime(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func timeFromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
