package apperr

import (
	"fmt"
	"testing"
)

func TestAs_UnwrapsWrappedError(t *testing.T) {
	t.Parallel()

	base := &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
	wrapped := fmt.Errorf("join: %w", base)

	got, ok := As(wrapped)
	if !ok || got != base {
		t.Fatalf("As()=(%v,%v), want (%v,true)", got, ok, base)
	}
	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Fatalf("As(plain) ok=true, want false")
	}
}

func TestError_MessageFallsBackToCode(t *testing.T) {
	t.Parallel()

	if got := (&Error{Code: "INTERNAL"}).Error(); got != "INTERNAL" {
		t.Fatalf("Error()=%q, want INTERNAL", got)
	}
	if got := (*Error)(nil).Error(); got != "" {
		t.Fatalf("nil Error()=%q, want empty", got)
	}
	v := Validation("invalid title", "title", "must be non-empty")
	if v.Status != 422 || v.Code != "VALIDATION_ERROR" || v.Details["title"] != "must be non-empty" {
		t.Fatalf("Validation()=%+v", v)
	}
}
