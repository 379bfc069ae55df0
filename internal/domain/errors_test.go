package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_Is(t *testing.T) {
	err := fmt.Errorf("update: %w", NewEmployeeNotFound(999))

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected employee not found to match ErrNotFound")
	}
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Error("expected employee not found to match ErrEmployeeNotFound")
	}
	if errors.Is(err, ErrDataIntegrity) {
		t.Error("expected employee not found not to match ErrDataIntegrity")
	}
	if err.Error() != "update: employee with id 999 not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	other := &NotFoundError{Entity: "passport", ID: 1}
	if errors.Is(other, ErrEmployeeNotFound) {
		t.Error("expected passport not found not to match ErrEmployeeNotFound")
	}
	if !errors.Is(other, ErrNotFound) {
		t.Error("expected passport not found to match ErrNotFound")
	}
}

func TestIntegrityError_Is(t *testing.T) {
	err := &IntegrityError{Entity: "passport", ID: 7, Reason: "passport not found"}

	if !errors.Is(err, ErrDataIntegrity) {
		t.Error("expected integrity error to match ErrDataIntegrity")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("expected integrity error not to match ErrNotFound")
	}
}
