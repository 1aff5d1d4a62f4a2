package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid message", ErrInvalidMessage},
		{"malformed candidate", ErrMalformedCandidate},
		{"not purchase order", ErrNotPurchaseOrder},
		{"duplicate", ErrDuplicate},
		{"ambiguous", ErrResolutionAmbiguous},
		{"invalid transition", ErrInvalidTransition},
		{"persistence conflict", ErrPersistenceConflict},
		{"validator required", ErrValidatorRequired},
		{"reason required", ErrReasonRequired},
		{"oracle unavailable", ErrOracleUnavailable},
		{"oracle disabled", ErrOracleDisabled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("reconcile: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match: %v", tc.err)
			}
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrMalformedCandidate, ErrNotPurchaseOrder, ErrDuplicate,
		ErrInvalidTransition, ErrPersistenceConflict, ErrNotFound,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && stdErrors.Is(a, b) {
				t.Fatalf("%v should not match %v", a, b)
			}
		}
	}
}
