package httpapi

import (
	"context"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

type userKey struct{}
type tokenKey struct{}

func WithUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	v, ok := ctx.Value(userKey{}).(domain.UserID)
	return v, ok && v != ""
}

// WithToken keeps the caller's bearer token so trip-scoped handlers can re-run the
// membership gate with it.
func WithToken(ctx context.Context, tok domain.SessionToken) context.Context {
	return context.WithValue(ctx, tokenKey{}, tok)
}

func TokenFromContext(ctx context.Context) (domain.SessionToken, bool) {
	v, ok := ctx.Value(tokenKey{}).(domain.SessionToken)
	return v, ok && v != ""
}

// userHolder lets outer middleware read the user id that the auth middleware resolves
// further down the chain.
type userHolder struct {
	userID domain.UserID
}

type holderKey struct{}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

func recordUser(ctx context.Context, id domain.UserID) {
	if h, ok := ctx.Value(holderKey{}).(*userHolder); ok {
		h.userID = id
	}
}
