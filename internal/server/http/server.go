package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address    string
	corsOrigin string
	handler    *Handler
	logger     logging.Logger
}

func NewServer(cfg *config.Config, h *Handler, l logging.Logger) *Server {
	return &Server{
		address:    cfg.EndpointAddr,
		corsOrigin: cfg.CORSOrigin,
		handler:    h,
		logger:     l.With("module", "http_server"),
	}
}

func (s *Server) Run(ctx context.Context) error {

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Credentialed cookies require an explicit origin, "*" is not allowed.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.corsOrigin,
		AllowCredentials: true,
	}))
	app.Use(s.requestLogger())

	registerRoutes(app, s.handler)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := app.Listen(s.address); err != nil {
		return err
	}

	return nil
}

// requestLogger logs each request with its latency and final status.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.logger.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		)
		return err
	}
}
