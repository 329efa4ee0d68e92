package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/safety"
)

func TestSOS_DefaultsAndExplicitValues(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	tok, _ := api.register(t, "s@example.com", "S")

	rec := api.do(t, call{method: http.MethodPost, path: "/api/sos", token: tok})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[SOSResponse](t, rec)
	if resp.Message != "SOS alert sent successfully" || resp.AlertID == "" || resp.Location != safety.DefaultSOSLocation {
		t.Fatalf("sos: got %+v", resp)
	}
	if resp.NearbyUsersNotified != 5 || !resp.AuthoritiesNotified || resp.Status != "active" {
		t.Fatalf("sos fan-out: got %+v", resp)
	}

	rec = api.do(t, call{method: http.MethodPost, path: "/api/sos", token: tok, body: map[string]any{"location": "Baga Beach", "message": "lost"}})
	if got := decode[SOSResponse](t, rec); got.Location != "Baga Beach" {
		t.Fatalf("location: got %q", got.Location)
	}

	requireError(t, api.do(t, call{method: http.MethodPost, path: "/api/sos"}), http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestDashboard_StatsReflectStores(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	a, _ := api.register(t, "a@example.com", "A")
	api.register(t, "b@example.com", "B")
	api.createTrip(t, a, map[string]any{"title": "Goa", "destination": "Goa"})
	if rec := api.do(t, call{method: http.MethodPut, path: "/api/profile", token: a, body: map[string]any{"bio": "x"}}); rec.Code != http.StatusOK {
		t.Fatalf("profile status=%d", rec.Code)
	}

	rec := api.do(t, call{method: http.MethodGet, path: "/api/dashboard/stats"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	st := decode[DashboardStats](t, rec)
	if st.TotalUsers != 2 || st.TotalTrips != 1 || st.ActiveTrips != 1 || st.VerifiedTourists != 1 || st.EmergencyAlerts != 0 {
		t.Fatalf("stats: got %+v", st)
	}
	if len(st.RiskAreas) != 2 {
		t.Fatalf("risk areas: got %v", st.RiskAreas)
	}
}

func TestDashboard_Heatmap(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	pts := decode[[]HeatPoint](t, api.do(t, call{method: http.MethodGet, path: "/api/dashboard/heatmap"}))
	if len(pts) != 3 {
		t.Fatalf("points: got %d want 3", len(pts))
	}
	for _, p := range pts {
		if p.Intensity <= 0 || p.Intensity > 1 {
			t.Fatalf("intensity out of range: %+v", p)
		}
	}
}

func TestRouter_HealthMetricsAndNotFound(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	if rec := api.do(t, call{method: http.MethodGet, path: "/healthz"}); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: status=%d body=%q", rec.Code, rec.Body.String())
	}

	api.register(t, "m@example.com", "M")
	rec := api.do(t, call{method: http.MethodGet, path: "/metrics"})
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"traveltinder_registrations_total 1", `route="/api/register"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}

	requireError(t, api.do(t, call{method: http.MethodGet, path: "/api/nope"}), http.StatusNotFound, "NOT_FOUND")
}

func TestRouter_ServesStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>TravelTinder</h1>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "static", "components"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "static", "app.js"), []byte("console.log(1)"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "static", "components", "chat.js"), []byte("export {}"), 0o600); err != nil {
		t.Fatal(err)
	}
	api := newTestAPIWithOptions(t, testAPIOptions{staticDir: dir})

	if rec := api.do(t, call{method: http.MethodGet, path: "/"}); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "TravelTinder") {
		t.Fatalf("index: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec := api.do(t, call{method: http.MethodGet, path: "/static/app.js"}); rec.Code != http.StatusOK || rec.Body.String() != "console.log(1)" {
		t.Fatalf("static: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec := api.do(t, call{method: http.MethodGet, path: "/static/components/chat.js"}); rec.Code != http.StatusOK || rec.Body.String() != "export {}" {
		t.Fatalf("nested static: status=%d body=%q", rec.Code, rec.Body.String())
	}
	// index.html lives beside static/, not inside it.
	if rec := api.do(t, call{method: http.MethodGet, path: "/static/index.html"}); rec.Code != http.StatusNotFound {
		t.Fatalf("/static/index.html status=%d, want 404", rec.Code)
	}
}
