package httpapi

import (
	"net/http"
	"testing"
	"time"
)

func TestTrips_CreateAndList_WithCreatorSnapshot(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice, aliceID := api.register(t, "alice@example.com", "Alice")
	bob, _ := api.register(t, "bob@example.com", "Bob")

	rec := api.do(t, call{method: http.MethodPost, path: "/api/trips", token: alice, body: map[string]any{
		"title": "Goa", "destination": "Goa, India", "start_date": "2025-05-01", "end_date": "2025-05-07",
	}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[CreateTripResponse](t, rec)
	if created.Message != "Trip created successfully" || created.TripID == "" || created.TripID != created.Trip.ID {
		t.Fatalf("create: got %+v", created)
	}
	tr := created.Trip
	if tr.MaxParticipants != 4 || tr.Status != "open" || tr.CreatorID != aliceID {
		t.Fatalf("trip defaults: got %+v", tr)
	}
	if len(tr.Participants) != 1 || tr.Participants[0] != aliceID {
		t.Fatalf("participants: got %v", tr.Participants)
	}
	if tr.StartDate == nil || tr.StartDate.Format("2006-01-02") != "2025-05-01" {
		t.Fatalf("start_date: got %v", tr.StartDate)
	}

	api.clk.Advance(time.Minute)
	api.createTrip(t, bob, map[string]any{"title": "Manali", "destination": "Manali"})

	rec = api.do(t, call{method: http.MethodGet, path: "/api/trips", token: bob})
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d", rec.Code)
	}
	list := decode[[]Trip](t, rec)
	if len(list) != 2 || list[0].Title != "Goa" || list[1].Title != "Manali" {
		t.Fatalf("list order: got %+v", list)
	}
	if c := list[0].Creator; c == nil || c.Name != "Alice" || c.Email != "alice@example.com" {
		t.Fatalf("creator: got %+v", list[0].Creator)
	}

	// The snapshot is resolved at read time.
	rec = api.do(t, call{method: http.MethodPut, path: "/api/profile", token: alice, body: map[string]any{"name": "Alice R"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status=%d", rec.Code)
	}
	list = decode[[]Trip](t, api.do(t, call{method: http.MethodGet, path: "/api/trips", token: bob}))
	if list[0].Creator == nil || list[0].Creator.Name != "Alice R" {
		t.Fatalf("creator after rename: got %+v", list[0].Creator)
	}
}

func TestTrips_Create_Validation(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	tok, _ := api.register(t, "v@example.com", "Val")

	cases := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing title", map[string]any{"destination": "X"}, "title"},
		{"zero capacity", map[string]any{"title": "T", "destination": "X", "max_participants": 0}, "max_participants"},
		{"end before start", map[string]any{"title": "T", "destination": "X", "start_date": "2025-05-07", "end_date": "2025-05-01"}, "end_date"},
	}
	for _, tc := range cases {
		rec := api.do(t, call{method: http.MethodPost, path: "/api/trips", token: tok, body: tc.body})
		er := requireError(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
		details, err := er.Error.Details.Get()
		if err != nil {
			t.Fatalf("%s: expected details", tc.name)
		}
		if _, ok := details[tc.field]; !ok {
			t.Fatalf("%s: details missing %q: %v", tc.name, tc.field, details)
		}
	}

	rec := api.do(t, call{method: http.MethodPost, path: "/api/trips", token: tok, body: map[string]any{"title": "T", "destination": "X", "start_date": "May 1"}})
	requireError(t, rec, http.StatusBadRequest, "INVALID_JSON")
}

func TestTrips_JoinFlow_CapacityAndDuplicates(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	a, aID := api.register(t, "a@example.com", "A")
	b, bID := api.register(t, "b@example.com", "B")
	c, _ := api.register(t, "c@example.com", "C")

	tr := api.createTrip(t, a, map[string]any{"title": "Goa", "destination": "Goa", "max_participants": 2})

	rec := api.do(t, call{method: http.MethodPost, path: tripPath(tr.ID, "/join"), token: b})
	if rec.Code != http.StatusOK {
		t.Fatalf("join status=%d body=%s", rec.Code, rec.Body.String())
	}
	joined := decode[JoinTripResponse](t, rec)
	if joined.Message != "Successfully joined trip" {
		t.Fatalf("message: got %q", joined.Message)
	}
	if ps := joined.Trip.Participants; len(ps) != 2 || ps[0] != aID || ps[1] != bID {
		t.Fatalf("participants: got %v", ps)
	}

	requireError(t, api.do(t, call{method: http.MethodPost, path: tripPath(tr.ID, "/join"), token: c}), http.StatusConflict, "TRIP_FULL")
	requireError(t, api.do(t, call{method: http.MethodPost, path: tripPath(tr.ID, "/join"), token: b}), http.StatusConflict, "ALREADY_PARTICIPANT")
	requireError(t, api.do(t, call{method: http.MethodPost, path: tripPath(tr.ID, "/join"), token: a}), http.StatusConflict, "ALREADY_PARTICIPANT")
	requireError(t, api.do(t, call{method: http.MethodPost, path: tripPath("nope", "/join"), token: c}), http.StatusNotFound, "TRIP_NOT_FOUND")

	list := decode[[]Trip](t, api.do(t, call{method: http.MethodGet, path: "/api/trips", token: c}))
	if len(list) != 1 || len(list[0].Participants) != 2 {
		t.Fatalf("failed joins changed the trip: %+v", list)
	}
}

func TestTrips_Create_IdempotencyReplayAndReuse(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	tok, _ := api.register(t, "i@example.com", "Idem")
	body := map[string]any{"title": "Goa", "destination": "Goa"}
	hdr := map[string]string{"Idempotency-Key": "k-1"}

	first := api.do(t, call{method: http.MethodPost, path: "/api/trips", token: tok, body: body, headers: hdr})
	if first.Code != http.StatusCreated {
		t.Fatalf("first status=%d body=%s", first.Code, first.Body.String())
	}
	second := api.do(t, call{method: http.MethodPost, path: "/api/trips", token: tok, body: body, headers: hdr})
	if second.Code != http.StatusCreated {
		t.Fatalf("replay status=%d body=%s", second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if decode[CreateTripResponse](t, first).TripID != decode[CreateTripResponse](t, second).TripID {
		t.Fatalf("replay created a different trip")
	}

	other := api.do(t, call{method: http.MethodPost, path: "/api/trips", token: tok, body: map[string]any{"title": "Other", "destination": "Goa"}, headers: hdr})
	requireError(t, other, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE")

	list := decode[[]Trip](t, api.do(t, call{method: http.MethodGet, path: "/api/trips", token: tok}))
	if len(list) != 1 {
		t.Fatalf("trips: got %d want 1", len(list))
	}

	// Without a key every request creates a trip.
	api.createTrip(t, tok, body)
	api.createTrip(t, tok, body)
	if list := decode[[]Trip](t, api.do(t, call{method: http.MethodGet, path: "/api/trips", token: tok})); len(list) != 3 {
		t.Fatalf("trips: got %d want 3", len(list))
	}
}
