// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, the email verification and
// password reset OTP flows, and profile reads.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/mail"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/otp"
	"github.com/dmitrijs2005/authkeeper/internal/server/password"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// UserData is the profile view returned to authenticated clients. It never
// includes the password digest or OTP state.
type UserData struct {
	Name       string
	Email      string
	IsVerified bool
}

// AuthService provides authentication-related operations:
// - Register / Login: credential lifecycle and session token minting
// - SendVerifyOtp / VerifyEmail: email verification flow
// - SendResetOtp / VerifyResetOtp / ResetPassword: password reset flow
// - GetUserData: profile read for an authenticated user
type AuthService struct {
	repo              users.Repository
	hasher            password.Hasher
	otp               *otp.Engine
	mailer            mail.Mailer
	logger            logging.Logger
	jwtSecret         []byte
	sessionValidity   time.Duration
	verifyOtpValidity time.Duration
	resetOtpValidity  time.Duration
	mailTimeout       time.Duration

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewAuthService constructs an AuthService from its collaborators and server
// config.
func NewAuthService(repo users.Repository, hasher password.Hasher, engine *otp.Engine,
	mailer mail.Mailer, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:              repo,
		hasher:            hasher,
		otp:               engine,
		mailer:            mailer,
		logger:            logger.With("module", "services"),
		jwtSecret:         []byte(cfg.SecretKey),
		sessionValidity:   cfg.SessionValidityDuration,
		verifyOtpValidity: cfg.VerifyOtpValidityDuration,
		resetOtpValidity:  cfg.ResetOtpValidityDuration,
		mailTimeout:       cfg.MailSendTimeout,
		now:               time.Now,
	}
}

// Register creates a new unverified user and mints a session token for it.
// A duplicate email yields common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, name, email, pass string) (*models.User, string, error) {
	if name == "" || email == "" || pass == "" {
		return nil, "", common.ErrorValidation
	}
	email = normalizeEmail(email)

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user, err := s.repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	s.sendMailAsync(mail.Message{
		To:      user.Email,
		Subject: "Welcome to authkeeper",
		Body:    fmt.Sprintf("Welcome to authkeeper. Your account has been created with email id: %s", user.Email),
	})

	return user, token, nil
}

// Login verifies the credentials and, on success, returns the user and a new
// session token. An unknown email yields common.ErrorNotFound, a wrong
// password common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*models.User, string, error) {
	if email == "" || pass == "" {
		return nil, "", common.ErrorValidation
	}

	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// SendVerifyOtp issues a fresh verification OTP for the user and emails it.
// Reissuing invalidates any pending verification code. An already verified
// account yields common.ErrAlreadyVerified.
func (s *AuthService) SendVerifyOtp(ctx context.Context, userID string) error {
	user, err := s.getByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return common.ErrAlreadyVerified
	}

	code, err := s.otp.Issue(user, otp.PurposeVerify, s.now(), s.verifyOtpValidity)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("error saving verification otp: %w", err)
	}

	s.sendMailAsync(mail.Message{
		To:      user.Email,
		Subject: "Account Verification OTP",
		Body:    fmt.Sprintf("Your OTP is %s. Verify your account using this OTP.", code),
	})

	return nil
}

// VerifyEmail consumes the presented verification OTP and marks the account
// verified. Consuming the code and flipping the flag land in the same Update,
// so a replayed code can never find the account half-verified. A verified
// account has no pending code, so repeat attempts fail with ErrInvalidOtp.
func (s *AuthService) VerifyEmail(ctx context.Context, userID, code string) error {
	if code == "" {
		return common.ErrorValidation
	}

	user, err := s.getByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.otp.Consume(user, otp.PurposeVerify, code, s.now()); err != nil {
		return err
	}
	user.IsVerified = true

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("error saving verification: %w", err)
	}
	return nil
}

// SendResetOtp issues a fresh password reset OTP for the account registered
// under email and mails it. Unlike login, an unknown email is reported as
// common.ErrorNotFound.
func (s *AuthService) SendResetOtp(ctx context.Context, email string) error {
	if email == "" {
		return common.ErrorValidation
	}

	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.otp.Issue(user, otp.PurposeReset, s.now(), s.resetOtpValidity)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("error saving reset otp: %w", err)
	}

	s.sendMailAsync(mail.Message{
		To:      user.Email,
		Subject: "Password Reset OTP",
		Body:    fmt.Sprintf("Your OTP for resetting your password is %s. Use this OTP to proceed with resetting your password.", code),
	})

	return nil
}

// VerifyResetOtp checks a reset OTP without consuming it, so a client can
// validate the code before collecting the new password. The code stays
// pending until ResetPassword consumes it.
func (s *AuthService) VerifyResetOtp(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return common.ErrorValidation
	}

	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.otp.Check(user, otp.PurposeReset, code, s.now())
}

// ResetPassword consumes the reset OTP and replaces the password digest in
// one Update. After success the old password no longer logs in and the code
// cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPass string) error {
	if email == "" || code == "" || newPass == "" {
		return common.ErrorValidation
	}

	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.otp.Consume(user, otp.PurposeReset, code, s.now()); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPass)
	if err != nil {
		return common.ErrorInternal
	}
	user.PasswordHash = hash

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("error saving new password: %w", err)
	}
	return nil
}

// GetUserData returns the profile view for an authenticated user.
func (s *AuthService) GetUserData(ctx context.Context, userID string) (*UserData, error) {
	user, err := s.getByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserData{Name: user.Name, Email: user.Email, IsVerified: user.IsVerified}, nil
}

// --- helpers below ---

func (s *AuthService) getByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *AuthService) getByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// sendMailAsync delivers a message in the background. Delivery is
// best-effort: a failure is logged (never the body, which may contain an
// OTP) and does not roll back the state change that triggered it.
func (s *AuthService) sendMailAsync(msg mail.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Error(ctx, "error sending mail", "to", msg.To, "subject", msg.Subject, "error", err)
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
