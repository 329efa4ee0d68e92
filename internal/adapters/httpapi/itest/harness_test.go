package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/httpapi"
	memclock "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/clock"
	memidempotency "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/idempotency"
	memmessagerepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/messagerepo"
	memsessionstore "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/sessionstore"
	memtouristidrepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/touristidrepo"
	memtriprepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/triprepo"
	memuserrepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/userrepo"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/authz"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/messages"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/safety"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/sessions"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/touristids"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/trips"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/users"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/credential"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/metrics"
)

type testServer struct {
	baseURL string
	client  *http.Client
	clk     *memclock.ManualClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	userRepo := memuserrepo.NewRepo()
	registry := sessions.NewRegistry(memsessionstore.NewStore())
	touristSvc := touristids.NewService(memtouristidrepo.NewRepo(), clk)
	usersSvc := users.NewService(userRepo, credential.NewBcryptDigester(bcrypt.MinCost), registry, clk, touristSvc)
	tripsSvc := trips.NewService(memtriprepo.NewRepo(), usersSvc, clk)
	messagesSvc := messages.NewService(memmessagerepo.NewRepo(), tripsSvc, usersSvc, clk)
	m := metrics.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	api := httpapi.NewServer(httpapi.Deps{
		Users:      usersSvc,
		Trips:      tripsSvc,
		Messages:   messagesSvc,
		TouristIDs: touristSvc,
		Safety:     safety.NewService(usersSvc, tripsSvc, touristSvc, clk),
		Gate:       authz.NewGate(registry, tripsSvc),
		Idem:       memidempotency.NewStore(),
		Metrics:    m,
		Log:        log,
		Clock:      clk,
	})
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{Metrics: m, Logger: log})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clk:     clk,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, token string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}

func (s *testServer) register(t *testing.T, email, name string) (token string, userID string) {
	t.Helper()
	status, body, _ := s.doJSON(t, http.MethodPost, "/api/register", "", map[string]any{
		"email": email, "password": "password-" + name, "name": name,
	})
	requireStatus(t, status, body, http.StatusCreated)
	resp := mustUnmarshal[httpapi.SessionResponse](t, body)
	return resp.Token, resp.User.ID
}
