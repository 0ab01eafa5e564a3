// Package common defines shared constants and sentinel errors used across
// the authkeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors (generic flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// OTP lifecycle errors.
	ErrInvalidOtp      = errors.New("invalid otp")
	ErrExpiredOtp      = errors.New("otp expired")
	ErrAlreadyVerified = errors.New("account already verified")

	// Token lifecycle errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
