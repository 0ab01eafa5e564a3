package http

import "github.com/gofiber/fiber/v2"

func registerRoutes(app *fiber.App, h *Handler) {
	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/logout", h.Logout)
	authGroup.Post("/send-verify-otp", h.RequireAuth, h.SendVerifyOtp)
	authGroup.Post("/verify-account", h.RequireAuth, h.VerifyAccount)
	authGroup.Get("/is-auth", h.RequireAuth, h.IsAuth)
	authGroup.Post("/send-reset-otp", h.SendResetOtp)
	authGroup.Post("/verify-reset-otp", h.VerifyResetOtp)
	authGroup.Post("/reset-password", h.ResetPassword)

	userGroup := app.Group("/api/user")
	userGroup.Get("/data", h.RequireAuth, h.GetUserData)
}
