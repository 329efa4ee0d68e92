package httpapi

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/metrics"
)

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	// CORSOrigins defaults to all origins when empty.
	CORSOrigins []string
	// AuthLimiter throttles /api/register and /api/login. Nil disables throttling.
	AuthLimiter *RateLimiter
	// Metrics is served on /metrics when non-nil.
	Metrics *metrics.Metrics
	// StaticDir, when set, serves its index.html on / and its static/ subdirectory under /static/.
	StaticDir string
	Logger    *slog.Logger
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = s.Log
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(EchoRequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log, opts.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", idempotencyHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	// Infra endpoints, outside the API surface.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(opts.AuthLimiter.Middleware)
			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
		})

		r.Post("/mock-otp", s.MockOTP)
		r.Get("/dashboard/stats", s.DashboardStats)
		r.Get("/dashboard/heatmap", s.Heatmap)

		r.Group(func(r chi.Router) {
			r.Use(NewAuthMiddleware(s.Gate))

			r.Get("/profile", s.GetProfile)
			r.Put("/profile", s.UpdateProfile)

			r.Get("/trips", s.ListTrips)
			r.Post("/trips", s.CreateTrip)
			r.Post("/trips/{tripID}/join", s.JoinTrip)

			r.Get("/messages/{tripID}", s.ListMessages)
			r.Post("/messages/{tripID}", s.SendMessage)

			r.Post("/sos", s.TriggerSOS)
			r.Get("/tourist-id", s.GetTouristID)
		})
	})

	if opts.StaticDir != "" {
		dir := opts.StaticDir
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(dir, "index.html"))
		})
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(dir, "static")))))
	}

	return r
}
