package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&changePasswordRequest{})
	var fields validation.Errors
	if !errors.As(err, &fields) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if len(fields) != 2 || fields[0].Field != "current_password" || fields[1].Field != "new_password" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields[0].Message != "is required" {
		t.Fatalf("unexpected message %q", fields[0].Message)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected the error to match ErrValidation")
	}
}

func TestValidator_MaxLength(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&loginRequest{Username: strings.Repeat("a", 65), Password: "secret1"})
	var fields validation.Errors
	if !errors.As(err, &fields) || len(fields) != 1 {
		t.Fatalf("expected one field error, got %v", err)
	}
	if fields[0].Field != "username" || fields[0].Message != "must be at most 64 characters" {
		t.Fatalf("unexpected field error: %+v", fields[0])
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&loginRequest{Username: "alice123", Password: "secret1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
