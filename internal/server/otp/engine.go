// Package otp implements the one-time-password lifecycle: issuing a code
// with an absolute expiry, checking a presented code, and consuming it so
// the same code can never be accepted twice.
//
// The engine mutates the OTP field pair on a models.User in memory; the
// caller persists the record afterwards. Because consuming and the benefit
// it grants (marking verified, replacing the password digest) land in the
// same repository Update, the two effects commit atomically.
package otp

import (
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

const codeLength = 6

// Purpose partitions OTP state so the verification and reset flows cannot
// interfere with each other.
type Purpose int

const (
	PurposeVerify Purpose = iota
	PurposeReset
)

type Engine struct {
	gen Generator
}

func NewEngine(gen Generator) *Engine {
	return &Engine{gen: gen}
}

// Issue generates a fresh code for the given purpose and binds it to the
// user with an absolute expiry of now+ttl. Any pending code for the same
// purpose is overwritten, which invalidates it.
func (e *Engine) Issue(user *models.User, purpose Purpose, now time.Time, ttl time.Duration) (string, error) {
	code, err := e.gen.Code()
	if err != nil {
		return "", err
	}

	expiry := now.Add(ttl)
	setPair(user, purpose, code, &expiry)

	return code, nil
}

// Check validates a presented code without mutating the user.
//
// common.ErrInvalidOtp: no pending code, empty presented code, or exact
// string mismatch. common.ErrExpiredOtp: the code matches but now is at or
// past the stored expiry. Mismatch is checked first, so a wrong-and-expired
// code reports invalid, not expired.
func (e *Engine) Check(user *models.User, purpose Purpose, code string, now time.Time) error {
	stored, expiry := pair(user, purpose)

	if stored == "" || code == "" || stored != code {
		return common.ErrInvalidOtp
	}
	if expiry == nil || !now.Before(*expiry) {
		return common.ErrExpiredOtp
	}
	return nil
}

// Consume is Check plus single-use enforcement: on success the code and its
// expiry are cleared together, so a replay of the same code fails with
// common.ErrInvalidOtp.
func (e *Engine) Consume(user *models.User, purpose Purpose, code string, now time.Time) error {
	if err := e.Check(user, purpose, code, now); err != nil {
		return err
	}
	setPair(user, purpose, "", nil)
	return nil
}

func pair(user *models.User, purpose Purpose) (string, *time.Time) {
	if purpose == PurposeReset {
		return user.ResetOtp, user.ResetOtpExpiresAt
	}
	return user.VerifyOtp, user.VerifyOtpExpiresAt
}

// setPair is the single writer of an OTP field pair, keeping the
// set-together/clear-together invariant in one place.
func setPair(user *models.User, purpose Purpose, code string, expiry *time.Time) {
	if purpose == PurposeReset {
		user.ResetOtp = code
		user.ResetOtpExpiresAt = expiry
		return
	}
	user.VerifyOtp = code
	user.VerifyOtpExpiresAt = expiry
}
