package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{name: "validation", err: ErrValidation, expected: KindValidation},
		{name: "wrapped validation", err: fmt.Errorf("%w: username too short", ErrValidation), expected: KindValidation},
		{name: "unknown role", err: fmt.Errorf("%w: unknown role %q", ErrInvalidRole, "root"), expected: KindValidation},
		{name: "coordinate", err: ErrInvalidCoordinate, expected: KindValidation},
		{name: "otp invalid", err: ErrOTPInvalid, expected: KindBadRequest},
		{name: "otp delivery", err: fmt.Errorf("%w: provider down", ErrOTPDelivery), expected: KindBadRequest},
		{name: "conflict", err: fmt.Errorf("%w: email taken", ErrUserAlreadyExists), expected: KindConflict},
		{name: "bad credentials", err: ErrInvalidCredentials, expected: KindUnauthenticated},
		{name: "expired token", err: fmt.Errorf("%w: %w", ErrUnauthenticated, ErrTokenExpired), expected: KindUnauthenticated},
		{name: "invalid token", err: ErrTokenInvalid, expected: KindUnauthenticated},
		{name: "forbidden", err: ErrForbidden, expected: KindForbidden},
		{name: "inactive", err: ErrUserInactive, expected: KindForbidden},
		{name: "not found", err: ErrUserNotFound, expected: KindNotFound},
		{name: "resource not found", err: ErrResourceNotFound, expected: KindNotFound},
		{name: "storage failure", err: errors.New("connection refused"), expected: KindInternal},
		{name: "nil", err: nil, expected: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrUserNotFound, ErrInvalidCredentials, ErrUserAlreadyExists, ErrUserInactive,
		ErrUnauthenticated, ErrValidation, ErrInvalidRole, ErrInvalidCoordinate,
		ErrOTPInvalid, ErrOTPDelivery, ErrTokenInvalid, ErrTokenExpired,
		ErrForbidden, ErrResourceNotFound,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
