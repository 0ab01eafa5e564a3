// Package server initializes and runs the authentication server. It wires
// the storage backend, the mail backend, and the HTTP endpoint together and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/http"
	"github.com/dmitrijs2005/authkeeper/internal/server/mail"
	"github.com/dmitrijs2005/authkeeper/internal/server/otp"
	"github.com/dmitrijs2005/authkeeper/internal/server/password"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     repomanager.Manager
	authService *services.AuthService
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	manager, err := newManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	service := services.NewAuthService(
		manager.Users(),
		password.NewBcryptHasher(cfg.PasswordHashCost),
		otp.NewEngine(otp.CryptoGenerator{}),
		newMailer(cfg, logger),
		logger,
		cfg,
	)

	return &App{config: cfg, logger: logger, manager: manager, authService: service}, nil
}

// newManager picks the storage backend. Anything other than "memory" gets
// the PostgreSQL backend.
func newManager(cfg *config.Config) (repomanager.Manager, error) {
	if cfg.StoreBackend == "memory" {
		return repomanager.NewMemoryManager(), nil
	}
	return repomanager.NewPostgresManager(cfg.DatabaseDSN)
}

// newMailer picks the delivery backend: the HTTP API client when an API key
// is configured, the log-only backend otherwise.
func newMailer(cfg *config.Config, logger logging.Logger) mail.Mailer {
	if cfg.MailAPIKey == "" {
		return mail.NewLogMailer(logger)
	}
	return mail.NewAPIClient(cfg.MailEndpoint, cfg.MailAPIKey, cfg.MailSenderEmail, cfg.MailSenderName)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	h := http.NewHandler(app.authService, app.logger, app.config)
	s := http.NewServer(app.config, h, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.manager.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}
	defer func() {
		if err := app.manager.Close(); err != nil {
			app.logger.Error(ctx, "error closing store", "error", err)
		}
	}()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
