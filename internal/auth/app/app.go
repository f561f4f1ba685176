package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/Dorian9120/eventyfast/internal/auth/http"
	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/internal/auth/store/drivers/sqlite"
	"github.com/Dorian9120/eventyfast/internal/mailer"
	"github.com/Dorian9120/eventyfast/pkg/cryptox"
	"github.com/Dorian9120/eventyfast/pkg/jwtx"
	"github.com/Dorian9120/eventyfast/pkg/kvx"
	"github.com/Dorian9120/eventyfast/pkg/slogx"

	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	kv     kvx.Store
	signer *jwtx.HS256
	mail   mailer.Mailer

	// Services
	authService     *service.AuthService
	mfaService      *service.MFAService
	registerService *service.RegisterService
	passwordService *service.PasswordService
	accountService  *service.AccountService
	contactService  *service.ContactService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "eventyfast-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	signer, err := jwtx.NewHS256(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initKV()
	app.initMailer()

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if closer, ok := app.mail.(*mailer.SMTP); ok {
		closer.Close()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initKV selects the backing store for lockout and verification-code state.
// Single-instance deployments run fine on the in-memory store; point
// REDIS_ADDR at a redis instance when scaling out.
func (app *Application) initKV() {
	if app.cfg.RedisAddr == "" {
		app.kv = kvx.NewMemory()
		app.logger.Info("using in-memory kv store")
		return
	}

	client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
	app.kv = kvx.NewRedis(client, "eventyfast")
	app.logger.Info("using redis kv store", "addr", app.cfg.RedisAddr)
}

// initMailer wires SMTP when configured, otherwise drops mail on the floor.
func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.mail = mailer.Nop{}
		app.logger.Warn("SMTP not configured, outgoing mail disabled")
		return
	}

	smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	}, app.logger)
	if err != nil {
		app.mail = mailer.Nop{}
		app.logger.Error("SMTP pool init failed, outgoing mail disabled", "error", err)
		return
	}
	app.mail = smtp
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	gate := &service.RateGate{KV: app.kv}
	tokens := &service.TokenService{Signer: app.signer}
	codes := &service.VerificationCodes{KV: app.kv}

	var identity service.IdentityVerifier
	if app.cfg.GoogleClientID != "" {
		verifier, err := service.NewGoogleVerifier(context.Background(), app.cfg.GoogleClientID)
		if err != nil {
			return fmt.Errorf("google verifier: %w", err)
		}
		identity = verifier
	}

	app.authService = &service.AuthService{
		Store:    app.db,
		Gate:     gate,
		Tokens:   tokens,
		Identity: identity,
		Mailer:   app.mail,
		Log:      app.logger,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: "eventyfast",
	}
	app.registerService = &service.RegisterService{
		Store:  app.db,
		Codes:  codes,
		KV:     app.kv,
		Mailer: app.mail,
		Log:    app.logger,
	}
	app.passwordService = &service.PasswordService{
		Store:  app.db,
		Codes:  codes,
		Mailer: app.mail,
		Log:    app.logger,
	}
	app.accountService = &service.AccountService{Store: app.db, Log: app.logger}
	app.contactService = &service.ContactService{
		Store:        app.db,
		Mailer:       app.mail,
		SupportEmail: app.cfg.SupportEmail,
		Log:          app.logger,
	}

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, app.cfg.SecureCookies, app.db, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.MFAService = app.mfaService
	router.RegisterService = app.registerService
	router.PasswordService = app.passwordService
	router.AccountService = app.accountService
	router.ContactService = app.contactService
	router.GoogleClientID = app.cfg.GoogleClientID
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
