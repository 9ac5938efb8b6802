package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Validation errors
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// OTP errors
var (
	ErrOTPInvalid  = errors.New("invalid or expired otp")
	ErrOTPDelivery = errors.New("could not send otp")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Authorization errors
var (
	ErrForbidden        = errors.New("not enough permissions")
	ErrResourceNotFound = errors.New("resource not found")
)

// ErrorKind classifies errors for transport mapping
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindBadRequest
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidCoordinate):
		return KindValidation
	case errors.Is(err, ErrOTPInvalid), errors.Is(err, ErrOTPDelivery):
		return KindBadRequest
	case errors.Is(err, ErrUserAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenExpired):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUserInactive):
		return KindForbidden
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	}
	return KindInternal
}
