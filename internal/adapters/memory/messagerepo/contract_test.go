package messagerepo

import (
	"testing"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/contracttest"
	messagerepoport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/messagerepo"
)

func TestContract_MessageRepo(t *testing.T) {
	contracttest.RunMessageRepo(t, func(t *testing.T) (messagerepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
