package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

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

type testAPI struct {
	h       http.Handler
	clk     *memclock.ManualClock
	metrics *metrics.Metrics
}

type testAPIOptions struct {
	limiter   *RateLimiter
	staticDir string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithOptions(t, testAPIOptions{})
}

func newTestAPIWithOptions(t *testing.T, opts testAPIOptions) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	userRepo := memuserrepo.NewRepo()
	tripRepo := memtriprepo.NewRepo()

	registry := sessions.NewRegistry(memsessionstore.NewStore())
	touristSvc := touristids.NewService(memtouristidrepo.NewRepo(), clk)
	usersSvc := users.NewService(userRepo, credential.NewBcryptDigester(bcrypt.MinCost), registry, clk, touristSvc)
	tripsSvc := trips.NewService(tripRepo, usersSvc, clk)
	messagesSvc := messages.NewService(memmessagerepo.NewRepo(), tripsSvc, usersSvc, clk)
	safetySvc := safety.NewService(usersSvc, tripsSvc, touristSvc, clk)
	m := metrics.New()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer(Deps{
		Users:      usersSvc,
		Trips:      tripsSvc,
		Messages:   messagesSvc,
		TouristIDs: touristSvc,
		Safety:     safetySvc,
		Gate:       authz.NewGate(registry, tripsSvc),
		Idem:       memidempotency.NewStore(),
		Metrics:    m,
		Log:        log,
		Clock:      clk,
	})
	h := NewRouter(s, RouterOptions{
		AuthLimiter: opts.limiter,
		Metrics:     m,
		StaticDir:   opts.staticDir,
		Logger:      log,
	})
	return &testAPI{h: h, clk: clk, metrics: m}
}

type call struct {
	method  string
	path    string
	token   string
	body    any
	raw     string
	headers map[string]string
}

func (a *testAPI) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch {
	case c.raw != "":
		r = bytes.NewBufferString(c.raw)
	case c.body != nil:
		b, err := json.Marshal(c.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(c.method, c.path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its token and user id.
func (a *testAPI) register(t *testing.T, email, name string) (string, string) {
	t.Helper()
	rec := a.do(t, call{method: http.MethodPost, path: "/api/register", body: map[string]any{
		"email": email, "password": "pw-" + email, "name": name,
	}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status=%d body=%s", email, rec.Code, rec.Body.String())
	}
	resp := decode[SessionResponse](t, rec)
	return resp.Token, resp.User.ID
}

func (a *testAPI) createTrip(t *testing.T, token string, body map[string]any) Trip {
	t.Helper()
	rec := a.do(t, call{method: http.MethodPost, path: "/api/trips", token: token, body: body})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create trip: status=%d body=%s", rec.Code, rec.Body.String())
	}
	return decode[CreateTripResponse](t, rec).Trip
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v body=%s", out, err, rec.Body.String())
	}
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, status, rec.Body.String())
	}
	er := decode[ErrorResponse](t, rec)
	if er.Error.Code != code {
		t.Fatalf("code: got %q want %q", er.Error.Code, code)
	}
	return er
}

func tripPath(id string, suffix string) string {
	return fmt.Sprintf("/api/trips/%s%s", id, suffix)
}
