package itest

import (
	"net/http"
	"sync"
	"testing"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/httpapi"
)

// Two travellers share a trip: create, join, chat, and an outsider is kept out.
func TestTripGroupChatScenario(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	asha, ashaID := s.register(t, "asha@example.com", "Asha")
	bilal, bilalID := s.register(t, "bilal@example.com", "Bilal")
	chen, _ := s.register(t, "chen@example.com", "Chen")

	status, body, _ := s.doJSON(t, http.MethodPost, "/api/trips", asha, map[string]any{
		"title": "Goa Beaches", "destination": "Goa", "max_participants": 2,
	})
	requireStatus(t, status, body, http.StatusCreated)
	tripID := mustUnmarshal[httpapi.CreateTripResponse](t, body).TripID

	status, body, _ = s.doJSON(t, http.MethodPost, "/api/trips/"+tripID+"/join", bilal, nil)
	requireStatus(t, status, body, http.StatusOK)

	status, body, _ = s.doJSON(t, http.MethodPost, "/api/trips/"+tripID+"/join", chen, nil)
	requireErrorCode(t, status, body, http.StatusConflict, "TRIP_FULL")

	status, body, _ = s.doJSON(t, http.MethodPost, "/api/messages/"+tripID, asha, map[string]any{"content": "Packing list?"})
	requireStatus(t, status, body, http.StatusCreated)
	status, body, _ = s.doJSON(t, http.MethodPost, "/api/messages/"+tripID, bilal, map[string]any{"content": "Sunscreen."})
	requireStatus(t, status, body, http.StatusCreated)

	status, body, hdr := s.doJSON(t, http.MethodGet, "/api/messages/"+tripID, chen, nil)
	requireErrorCode(t, status, body, http.StatusForbidden, "NOT_TRIP_PARTICIPANT")
	requireHeaderPresent(t, hdr, "X-Request-Id")
	if er := mustUnmarshal[errorResponse](t, body); er.Error.RequestID == "" {
		t.Fatalf("expected requestId in error body")
	}

	status, body, _ = s.doJSON(t, http.MethodGet, "/api/messages/"+tripID, bilal, nil)
	requireStatus(t, status, body, http.StatusOK)
	log := mustUnmarshal[[]httpapi.Message](t, body)
	if len(log) != 2 {
		t.Fatalf("messages: got %d want 2", len(log))
	}
	if log[0].SenderID != ashaID || log[0].Content != "Packing list?" || log[1].SenderID != bilalID || log[1].SenderName != "Bilal" {
		t.Fatalf("log: got %+v", log)
	}

	status, body, _ = s.doJSON(t, http.MethodGet, "/api/trips", chen, nil)
	requireStatus(t, status, body, http.StatusOK)
	trips := mustUnmarshal[[]httpapi.Trip](t, body)
	if len(trips) != 1 || len(trips[0].Participants) != 2 || trips[0].Creator == nil || trips[0].Creator.Name != "Asha" {
		t.Fatalf("trips: got %+v", trips)
	}
}

func TestConcurrentJoinsNeverExceedCapacity(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner, _ := s.register(t, "owner@example.com", "Owner")

	status, body, _ := s.doJSON(t, http.MethodPost, "/api/trips", owner, map[string]any{
		"title": "Ladakh", "destination": "Leh", "max_participants": 3,
	})
	requireStatus(t, status, body, http.StatusCreated)
	tripID := mustUnmarshal[httpapi.CreateTripResponse](t, body).TripID

	const joiners = 12
	tokens := make([]string, joiners)
	for i := range tokens {
		tokens[i], _ = s.register(t, "j"+string(rune('a'+i))+"@example.com", "Joiner")
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = map[int]int{}
	)
	for _, tok := range tokens {
		wg.Add(1)
		go func(tok string) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, s.url("/api/trips/"+tripID+"/join"), nil)
			if err != nil {
				t.Errorf("new request: %v", err)
				return
			}
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := s.client.Do(req)
			if err != nil {
				t.Errorf("join: %v", err)
				return
			}
			_ = resp.Body.Close()
			status := resp.StatusCode
			mu.Lock()
			counts[status]++
			mu.Unlock()
		}(tok)
	}
	wg.Wait()

	if counts[http.StatusOK] != 2 || counts[http.StatusConflict] != joiners-2 {
		t.Fatalf("join outcomes: %v", counts)
	}

	status, body, _ = s.doJSON(t, http.MethodGet, "/api/trips", owner, nil)
	requireStatus(t, status, body, http.StatusOK)
	ts := mustUnmarshal[[]httpapi.Trip](t, body)
	seen := map[string]bool{}
	for _, p := range ts[0].Participants {
		if seen[p] {
			t.Fatalf("duplicate participant %s", p)
		}
		seen[p] = true
	}
	if len(ts[0].Participants) != 3 {
		t.Fatalf("participants: got %d want 3", len(ts[0].Participants))
	}
}

func TestProfileCompletionIssuesTouristID(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	tok, id := s.register(t, "tara@example.com", "Tara")

	status, body, _ := s.doJSON(t, http.MethodGet, "/api/tourist-id", tok, nil)
	requireErrorCode(t, status, body, http.StatusNotFound, "TOURIST_ID_NOT_FOUND")

	status, body, _ = s.doJSON(t, http.MethodPut, "/api/profile", tok, map[string]any{"location": "Jaipur"})
	requireStatus(t, status, body, http.StatusOK)

	status, body, _ = s.doJSON(t, http.MethodGet, "/api/tourist-id", tok, nil)
	requireStatus(t, status, body, http.StatusOK)
	if tid := mustUnmarshal[httpapi.TouristID](t, body); tid.UserID != id || !tid.Verified {
		t.Fatalf("tourist id: got %+v", tid)
	}

	status, body, _ = s.doJSON(t, http.MethodGet, "/api/dashboard/stats", "", nil)
	requireStatus(t, status, body, http.StatusOK)
	if st := mustUnmarshal[httpapi.DashboardStats](t, body); st.VerifiedTourists != 1 || st.TotalUsers != 1 {
		t.Fatalf("stats: got %+v", st)
	}
}
