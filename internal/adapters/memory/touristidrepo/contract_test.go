package touristidrepo

import (
	"testing"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/contracttest"
	touristidrepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/touristidrepo"
)

func TestContract_TouristIDRepo(t *testing.T) {
	contracttest.RunTouristIDRepo(t, func(t *testing.T) (touristidrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
