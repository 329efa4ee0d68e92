package userrepo

import (
	"testing"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/contracttest"
	userrepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/userrepo"
)

func TestContract_UserRepo(t *testing.T) {
	contracttest.RunUserRepo(t, func(t *testing.T) (userrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
