package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/federation"
	httpapi "github.com/jakbu/jakbu/internal/jakbu/http"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/internal/jakbu/store/drivers/sqlite"
	"github.com/jakbu/jakbu/pkg/cryptox"
	"github.com/jakbu/jakbu/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application owns the service dependencies and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	keys *Keys

	sessionService      *service.SessionService
	todoService         *service.TodoService
	notificationService *service.NotificationService
	reminderService     *service.ReminderService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "jakbu",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepperFile(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keys = keys

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.reminderService.Start()

	app.logger.Info("jakbu starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.reminderService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server, stops the reminder worker and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down jakbu...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.reminderService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("jakbu stopped")
	return nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	loc := app.cfg.Location()

	tokens := &service.TokenIssuer{
		Signer:     app.keys.Signer,
		Verifier:   app.keys.Verifier,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	kakao := federation.NewClient(federation.Config{
		ClientID:     app.cfg.KakaoClientID,
		ClientSecret: app.cfg.KakaoClientSecret,
		RedirectURI:  app.cfg.KakaoRedirectURI,
		TokenURL:     app.cfg.KakaoTokenURL,
		ProfileURL:   app.cfg.KakaoProfileURL,
		Timeout:      app.cfg.OAuthTimeout,
	})
	if app.cfg.KakaoClientID == "" {
		app.logger.Warn("JAKBU_KAKAO_CLIENT_ID is not set; kakao login will be rejected upstream")
	}

	app.sessionService = &service.SessionService{
		Store:      app.db,
		Tokens:     tokens,
		Federation: kakao,
		Reconciler: &service.Reconciler{
			Store:              app.db,
			FallbackNamePrefix: app.cfg.FallbackNamePrefix,
		},
	}
	app.todoService = &service.TodoService{Store: app.db, Location: loc}
	app.notificationService = &service.NotificationService{Store: app.db}

	var pusher service.Pusher = service.LogPusher{Logger: app.logger}
	if app.cfg.PushWebhookURL != "" {
		pusher = service.NewWebhookPusher(app.cfg.PushWebhookURL, app.cfg.PushAuthHeader, 10*time.Second)
		app.logger.Info("push webhook configured")
	}

	app.reminderService = service.NewReminderService(
		app.db,
		app.todoService,
		pusher,
		app.logger,
		app.cfg.ReminderInterval,
	)
	app.reminderService.DailyHour = app.cfg.DailyHour
	app.reminderService.Location = loc
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Limits = app.cfg.RateLimits()
	router.SessionService = app.sessionService
	router.TodoService = app.todoService
	router.NotificationService = app.notificationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
