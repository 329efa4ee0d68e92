package triprepo

import (
	"testing"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/contracttest"
	triprepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/triprepo"
)

func TestContract_TripRepo(t *testing.T) {
	contracttest.RunTripRepo(t, func(t *testing.T) (triprepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
