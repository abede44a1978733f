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

	"github.com/careerhive/careerhive/internal/auth/domain"
	httpapi "github.com/careerhive/careerhive/internal/auth/http"
	"github.com/careerhive/careerhive/internal/auth/oauth"
	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/memory"
	redisdriver "github.com/careerhive/careerhive/internal/auth/store/drivers/redis"
	"github.com/careerhive/careerhive/internal/auth/store/drivers/sqlite"
	"github.com/careerhive/careerhive/pkg/jwtx"
	"github.com/careerhive/careerhive/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens store.TokenStore
	codec  *jwtx.Codec

	// Services
	tokenService *service.TokenService
	loginService *service.LoginService
	oauthService *service.OAuthService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initTokenStore(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	codec, err := InitCodec(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		_ = app.tokens.Close()
		return nil, err
	}
	app.codec = codec

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close the token store connection
	if err := app.tokens.Close(); err != nil {
		app.logger.Error("error closing token store", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
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

// initTokenStore picks the session token backend: redis when configured,
// in-process memory otherwise. Memory means every session dies with the
// process, which is only acceptable for dev.
func (app *Application) initTokenStore() error {
	if app.cfg.RedisURL == "" {
		app.tokens = memory.NewTokenStore()
		app.logger.Warn("using in-memory token store; sessions will not survive restarts")
		return nil
	}

	tokens, err := redisdriver.NewTokenStore(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to initialize redis token store: %w", err)
	}
	app.tokens = tokens

	app.logger.Info("redis token store connected")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Codec:      app.codec,
		Tokens:     app.tokens,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.loginService = &service.LoginService{
		Store:  app.db,
		Tokens: app.tokenService,
	}

	providers := make(map[domain.Provider]oauth.Provider)
	if app.cfg.Google.Configured() {
		providers[domain.ProviderGoogle] = oauth.NewGoogle(
			app.cfg.Google.ClientID, app.cfg.Google.ClientSecret, app.cfg.Google.RedirectURL)
	}
	if app.cfg.Kakao.Configured() {
		providers[domain.ProviderKakao] = oauth.NewKakao(
			app.cfg.Kakao.ClientID, app.cfg.Kakao.ClientSecret, app.cfg.Kakao.RedirectURL)
	}
	if app.cfg.Naver.Configured() {
		providers[domain.ProviderNaver] = oauth.NewNaver(
			app.cfg.Naver.ClientID, app.cfg.Naver.ClientSecret, app.cfg.Naver.RedirectURL)
	}
	for name := range providers {
		app.logger.Info("oauth provider registered", "provider", name)
	}

	app.oauthService = &service.OAuthService{
		Store:     app.db,
		Tokens:    app.tokenService,
		TokenRepo: app.tokens,
		Providers: providers,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.tokens,
		app.logger,
	)

	// Wire services to router
	router.TokenService = app.tokenService
	router.LoginService = app.loginService
	router.OAuthService = app.oauthService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
