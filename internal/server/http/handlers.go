// Package http exposes the authentication service over a JSON HTTP API.
// Sessions travel in an HttpOnly cookie; responses use a uniform
// {success, message} envelope.
package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

// Handler adapts AuthService operations to HTTP endpoints.
type Handler struct {
	service         *services.AuthService
	logger          logging.Logger
	secretKey       []byte
	sessionValidity time.Duration
}

func NewHandler(service *services.AuthService, logger logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		service:         service,
		logger:          logger.With("module", "http"),
		secretKey:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyAccountRequest struct {
	Otp string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyResetOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// Register creates an account and starts a session for it.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrorValidation)
	}

	_, token, err := h.service.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Account created successfully"})
}

// Login verifies credentials and starts a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrorValidation)
	}

	_, token, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{"success": true, "message": "Logged in successfully"})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; nothing is stored server-side to revoke.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// SendVerifyOtp emails a fresh verification code to the authenticated user.
func (h *Handler) SendVerifyOtp(c *fiber.Ctx) error {
	if err := h.service.SendVerifyOtp(c.UserContext(), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Verification OTP sent on email"})
}

// VerifyAccount consumes the presented code and marks the account verified.
func (h *Handler) VerifyAccount(c *fiber.Ctx) error {
	var req verifyAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrorValidation)
	}

	if err := h.service.VerifyEmail(c.UserContext(), userID(c), req.Otp); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Email verified successfully"})
}

// IsAuth reports whether the request carries a valid session. The auth
// middleware has already rejected anything invalid by the time this runs.
func (h *Handler) IsAuth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

// SendResetOtp emails a password reset code to the given address.
func (h *Handler) SendResetOtp(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrorValidation)
	}

	if err := h.service.SendResetOtp(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP sent to your email"})
}

// VerifyResetOtp checks a reset code without consuming it.
func (h *Handler) VerifyResetOtp(c *fiber.Ctx) error {
	var req verifyResetOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrorValidation)
	}

	if err := h.service.VerifyResetOtp(c.UserContext(), req.Email, req.Otp); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP verified"})
}

// ResetPassword consumes the reset code and replaces the password.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrorValidation)
	}

	if err := h.service.ResetPassword(c.UserContext(), req.Email, req.Otp, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password has been reset successfully"})
}

// GetUserData returns the authenticated user's profile.
func (h *Handler) GetUserData(c *fiber.Ctx) error {
	data, err := h.service.GetUserData(c.UserContext(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "userData": fiber.Map{
		"name":              data.Name,
		"email":             data.Email,
		"isAccountVerified": data.IsVerified,
	}})
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.sessionValidity),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

// userID returns the id the auth middleware stored for this request.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(ctxUserIDKey).(string)
	return id
}

// fail maps service errors to HTTP responses. Unknown errors collapse to a
// generic 500 so internals never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, message = fiber.StatusBadRequest, "Missing required details"
	case errors.Is(err, common.ErrorAlreadyExists):
		status, message = fiber.StatusConflict, "User already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		status, message = fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrorNotFound):
		status, message = fiber.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrAlreadyVerified):
		status, message = fiber.StatusBadRequest, "Account already verified"
	case errors.Is(err, common.ErrInvalidOtp):
		status, message = fiber.StatusBadRequest, "Invalid OTP"
	case errors.Is(err, common.ErrExpiredOtp):
		status, message = fiber.StatusBadRequest, "OTP expired"
	}

	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
