package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/nullable"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/authz"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/messages"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/safety"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/touristids"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/trips"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/users"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/idempotency"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/metrics"
)

// Deps are the collaborators of the HTTP adapter. Idem, Metrics and Log may be nil.
type Deps struct {
	Users      *users.Service
	Trips      *trips.Service
	Messages   *messages.Service
	TouristIDs *touristids.Service
	Safety     *safety.Service
	Gate       *authz.Gate
	Idem       idempotency.Store
	Metrics    *metrics.Metrics
	Log        *slog.Logger
	Clock      clockport.Clock
}

// Server implements the JSON API handlers.
type Server struct {
	Users      *users.Service
	Trips      *trips.Service
	Messages   *messages.Service
	TouristIDs *touristids.Service
	Safety     *safety.Service
	Gate       *authz.Gate
	Idem       idempotency.Store
	Metrics    *metrics.Metrics
	Log        *slog.Logger
	Clock      clockport.Clock

	validate *validator.Validate
}

func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	clk := d.Clock
	if clk == nil {
		clk = clockport.Func(func() time.Time { return time.Now().UTC() })
	}
	return &Server{
		Users:      d.Users,
		Trips:      d.Trips,
		Messages:   d.Messages,
		TouristIDs: d.TouristIDs,
		Safety:     d.Safety,
		Gate:       d.Gate,
		Idem:       d.Idem,
		Metrics:    d.Metrics,
		Log:        log,
		Clock:      clk,
		validate:   newValidator(),
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeAppError(w, r, s.Log, err)
}

func (s *Server) caller(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing user", nil)
	}
	return id, ok
}

// memberOf runs the membership gate for a trip-scoped route.
func (s *Server) memberOf(w http.ResponseWriter, r *http.Request, tripID domain.TripID) (domain.UserID, bool) {
	tok, _ := TokenFromContext(r.Context())
	id, err := s.Gate.AuthorizeMember(r.Context(), tok, tripID)
	if err != nil {
		s.fail(w, r, err)
		return "", false
	}
	return id, true
}

// Accounts.

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.Users.Register(r.Context(), users.RegisterInput{
		AccountKey:  req.Email,
		Credential:  req.Password,
		DisplayName: req.Name,
		Phone:       req.Phone,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Metrics.Registered()
	writeJSON(w, http.StatusCreated, toSessionResponse("Registration successful", sess.User, sess.Token))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.Metrics.Login("failure")
		s.fail(w, r, err)
		return
	}
	s.Metrics.Login("success")
	writeJSON(w, http.StatusOK, toSessionResponse("Login successful", sess.User, sess.Token))
}

func (s *Server) MockOTP(w http.ResponseWriter, r *http.Request) {
	var req MockOTPRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MockOTPResponse{
		Message:  "OTP verified successfully",
		Verified: s.Safety.VerifyOTP(r.Context(), req.Code),
	})
}

// Profile.

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	u, err := s.Users.Get(r.Context(), me)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

type UpdateProfileResponse struct {
	Message string  `json:"message"`
	Profile Profile `json:"profile"`
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.Users.UpdateProfile(r.Context(), me, users.UpdateProfileInput{
		Name:             optionalFromNullable(req.Name),
		Phone:            optionalFromNullable(req.Phone),
		Bio:              optionalFromNullable(req.Bio),
		Location:         optionalFromNullable(req.Location),
		Interests:        optionalFromNullable(req.Interests),
		EmergencyContact: optionalFromNullable(req.EmergencyContact),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateProfileResponse{Message: "Profile updated successfully", Profile: toProfile(u)})
}

func optionalFromNullable[T any](n nullable.Nullable[T]) users.Optional[T] {
	if !n.IsSpecified() {
		return users.Unspecified[T]()
	}
	if n.IsNull() {
		return users.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return users.Null[T]()
	}
	return users.Some(v)
}

// Trips.

func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ls, err := s.Trips.ListTrips(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]Trip, 0, len(ls))
	for _, l := range ls {
		out = append(out, toTrip(l.Trip, l.Creator))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req CreateTripRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	scope, replayed, err := s.beginIdempotent(w, r, me, "/api/trips", req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if replayed {
		return
	}

	created, err := s.Trips.CreateTrip(r.Context(), me, trips.CreateTripInput{
		Title:           req.Title,
		Destination:     req.Destination,
		Description:     req.Description,
		StartDate:       timeFromDate(req.StartDate),
		EndDate:         timeFromDate(req.EndDate),
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Metrics.TripCreated()

	b, err := json.Marshal(CreateTripResponse{
		Message: "Trip created successfully",
		TripID:  string(created.ID),
		Trip:    toTrip(created, nil),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.finishIdempotent(r.Context(), scope, http.StatusCreated, b)
	writeRaw(w, http.StatusCreated, "application/json", b)
}

func (s *Server) JoinTrip(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	t, err := s.Trips.JoinTrip(r.Context(), me, tripID)
	if err != nil {
		s.Metrics.TripJoin(joinResult(err))
		s.fail(w, r, err)
		return
	}
	s.Metrics.TripJoin("joined")
	writeJSON(w, http.StatusOK, JoinTripResponse{Message: "Successfully joined trip", Trip: toTrip(t, nil)})
}

func joinResult(err error) string {
	ae, ok := apperr.As(err)
	if !ok {
		return "error"
	}
	switch ae.Code {
	case "TRIP_FULL":
		return "full"
	case "ALREADY_PARTICIPANT":
		return "already_participant"
	case "TRIP_NOT_FOUND":
		return "not_found"
	default:
		return "error"
	}
}

// Messages.

func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	me, ok := s.memberOf(w, r, tripID)
	if !ok {
		return
	}
	ms, err := s.Messages.ListMessages(r.Context(), me, tripID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]Message, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMessage(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	me, ok := s.memberOf(w, r, tripID)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	hashed := struct {
		TripID  string `json:"trip_id"`
		Content string `json:"content"`
	}{string(tripID), req.Content}
	scope, replayed, err := s.beginIdempotent(w, r, me, "/api/messages/{tripID}", hashed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if replayed {
		return
	}

	m, err := s.Messages.SendMessage(r.Context(), me, tripID, req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Metrics.MessageSent()

	b, err := json.Marshal(SendMessageResponse{Message: "Message sent successfully", MessageID: string(m.ID)})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.finishIdempotent(r.Context(), scope, http.StatusCreated, b)
	writeRaw(w, http.StatusCreated, "application/json", b)
}

// Safety.

func (s *Server) TriggerSOS(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req SOSRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	alert := s.Safety.TriggerSOS(r.Context(), me, safety.SOSInput{Location: req.Location, Message: req.Message})
	s.Metrics.SOSTriggered()
	s.Log.WarnContext(r.Context(), "sos alert triggered",
		"alert_id", alert.ID,
		"user_id", string(me),
		"location", alert.Location,
	)
	writeJSON(w, http.StatusOK, SOSResponse{
		Message:             "SOS alert sent successfully",
		AlertID:             alert.ID,
		Location:            alert.Location,
		Status:              string(alert.Status),
		NearbyUsersNotified: alert.NearbyUsersNotified,
		AuthoritiesNotified: alert.AuthoritiesNotified,
	})
}

func (s *Server) GetTouristID(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	tid, err := s.TouristIDs.Get(r.Context(), me)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TouristID{
		ID:             tid.ID,
		UserID:         string(tid.UserID),
		BlockchainHash: tid.BlockchainHash,
		Verified:       tid.Verified,
		CreatedAt:      tid.CreatedAt,
	})
}

func (s *Server) DashboardStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Safety.DashboardStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	areas := make([]RiskArea, 0, len(st.RiskAreas))
	for _, a := range st.RiskAreas {
		areas = append(areas, RiskArea{Location: a.Location, RiskLevel: a.RiskLevel})
	}
	writeJSON(w, http.StatusOK, DashboardStats{
		TotalUsers:       st.TotalUsers,
		ActiveTrips:      st.ActiveTrips,
		TotalTrips:       st.TotalTrips,
		EmergencyAlerts:  st.EmergencyAlerts,
		VerifiedTourists: st.VerifiedTourists,
		RiskAreas:        areas,
	})
}

func (s *Server) Heatmap(w http.ResponseWriter, r *http.Request) {
	pts := s.Safety.Heatmap(r.Context())
	out := make([]HeatPoint, 0, len(pts))
	for _, p := range pts {
		out = append(out, HeatPoint{Lat: p.Lat, Lng: p.Lng, Intensity: p.Intensity})
	}
	writeJSON(w, http.StatusOK, out)
}
