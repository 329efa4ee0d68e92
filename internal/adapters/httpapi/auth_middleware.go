package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

// Authorizer resolves bearer tokens to users.
type Authorizer interface {
	Authorize(ctx context.Context, tok domain.SessionToken) (domain.UserID, error)
}

// NewAuthMiddleware enforces Authorization: Bearer <token> on the routes it wraps.
//
// On success, it stores the authenticated user id and the raw token in request context.
func NewAuthMiddleware(gate Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			tok := domain.SessionToken(raw)
			userID, err := gate.Authorize(r.Context(), tok)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			recordUser(r.Context(), userID)
			ctx := WithToken(WithUserID(r.Context(), userID), tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
