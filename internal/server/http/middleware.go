package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
)

// ctxUserIDKey is the fiber.Locals key under which the auth middleware
// stores the authenticated user id.
const ctxUserIDKey = "userID"

// RequireAuth verifies the session cookie and stores the user id in the
// request locals. Requests without a valid session are rejected with 401
// before reaching the handler.
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	token := c.Cookies(common.SessionCookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Not authorized. Login again"})
	}

	uid, err := auth.GetUserIDFromToken(token, h.secretKey)
	if err != nil {
		message := "Not authorized. Login again"
		if errors.Is(err, common.ErrTokenExpired) {
			message = "Session expired. Login again"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": message})
	}

	c.Locals(ctxUserIDKey, uid)
	return c.Next()
}
