package httpapi

import (
	"context"
	"errors"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
)

type fakeAuthorizer map[string]string

func (f fakeAuthorizer) Authorize(_ context.Context, tok domain.SessionToken) (domain.UserID, error) {
	id, ok := f[string(tok)]
	if !ok {
		return "", errors.New("unknown token")
	}
	return domain.UserID(id), nil
}
