package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Internal("failed to confirm attendance", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected AppError to unwrap to its cause")
	}
	wrapped := fmt.Errorf("handler: %w", err)
	if !HasCode(wrapped, ErrInternalServer) {
		t.Fatal("expected HasCode to see through wrapping")
	}
	if HasCode(wrapped, ErrNotFound) {
		t.Fatal("unexpected code match")
	}
}

func TestAppErrorIsByCode(t *testing.T) {
	err := NotFound("guest not in list")
	if !stderrors.Is(err, &AppError{Code: ErrNotFound}) {
		t.Fatal("expected match by code")
	}
	if stderrors.Is(err, &AppError{Code: ErrSchema}) {
		t.Fatal("codes differ, should not match")
	}
}

func TestWithDetails(t *testing.T) {
	err := NewAppError(ErrSchema, "missing columns", nil).WithDetails([]string{"Email"})
	missing, ok := err.Details.([]string)
	if !ok || len(missing) != 1 || missing[0] != "Email" {
		t.Fatalf("unexpected details: %#v", err.Details)
	}
	if err.Error() != "SCHEMA_ERROR: missing columns" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
