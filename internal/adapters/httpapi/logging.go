package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/metrics"
)

// RequestLogger logs one line per request and feeds the HTTP metrics. Routes are labelled by
// their chi pattern so ids never end up in metric labels.
func RequestLogger(log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// The auth middleware stores the user id on a derived request; keep a pointer we can read back.
			holder := &userHolder{}
			next.ServeHTTP(ww, r.WithContext(withUserHolder(r.Context(), holder)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			d := time.Since(start)
			m.ObserveHTTP(r.Method, route, status, d)

			attrs := []any{
				"method", r.Method,
				"route", route,
				"status", status,
				"duration", d,
				"request_id", middleware.GetReqID(r.Context()),
			}
			if holder.userID != "" {
				attrs = append(attrs, "user_id", string(holder.userID))
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.Log(r.Context(), level, "http request", attrs...)
		})
	}
}

// EchoRequestID returns the request id to the client in the X-Request-Id header.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			w.Header().Set(middleware.RequestIDHeader, rid)
		}
		next.ServeHTTP(w, r)
	})
}
