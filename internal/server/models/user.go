package models

import "time"

// User is the credential record persisted by the users repository.
//
// An OTP field and its expiry always travel as a pair: both set when a code
// is issued, both cleared when it is consumed or superseded. An empty code
// must never carry a live expiry, and vice versa — the otp package is the
// only writer of these fields.
//
// Version is an optimistic-concurrency counter: every Update bumps it and a
// stale writer gets common.ErrVersionConflict instead of silently losing the
// other writer's OTP state.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool

	VerifyOtp          string
	VerifyOtpExpiresAt *time.Time
	ResetOtp           string
	ResetOtpExpiresAt  *time.Time

	Version   int64
	CreatedAt time.Time
}
