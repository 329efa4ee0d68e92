package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/token"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/sessionstore"
)

// maxIssueAttempts bounds retries on token collision. With 256 bits of entropy a single
// retry is already astronomically unlikely.
const maxIssueAttempts = 3

// Registry issues opaque bearer tokens and resolves them back to users.
type Registry struct {
	store sessionstore.Store

	newToken func() (domain.SessionToken, error)
}

func NewRegistry(store sessionstore.Store) *Registry {
	return &Registry{
		store: store,
		newToken: func() (domain.SessionToken, error) {
			s, err := token.Generate()
			return domain.SessionToken(s), err
		},
	}
}

// SetNewTokenForTest overrides token generation for deterministic tests.
// It should not be used in production code.
func (r *Registry) SetNewTokenForTest(fn func() (domain.SessionToken, error)) {
	if fn != nil {
		r.newToken = fn
	}
}

// Issue binds a fresh token to userID. A user may hold any number of live tokens.
func (r *Registry) Issue(ctx context.Context, userID domain.UserID) (domain.SessionToken, error) {
	for i := 0; i < maxIssueAttempts; i++ {
		tok, err := r.newToken()
		if err != nil {
			return "", fmt.Errorf("generate session token: %w", err)
		}
		err = r.store.Put(ctx, tok, userID)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, sessionstore.ErrTokenExists) {
			return "", fmt.Errorf("store session token: %w", err)
		}
	}
	return "", fmt.Errorf("issue session token: %w", sessionstore.ErrTokenExists)
}

// Resolve returns the user bound to tok. Empty, unknown and unreadable tokens all
// resolve to ok=false.
func (r *Registry) Resolve(ctx context.Context, tok domain.SessionToken) (domain.UserID, bool) {
	if tok == "" {
		return "", false
	}
	id, ok, err := r.store.Resolve(ctx, tok)
	if err != nil || !ok {
		return "", false
	}
	return id, true
}
