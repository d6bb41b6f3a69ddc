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

	"github.com/redis/go-redis/v9"

	httpapi "github.com/aussiebroadwan/oauth20/internal/oauth/http"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/cached"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/memory"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/postgres"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/sqlite"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/otelx"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "oauth20"
)

// Application wires configuration, storage, services and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db            store.Store
	redis         *redis.Client
	traceShutdown func(context.Context) error

	clientService       *service.ClientService
	scopeService        *service.ScopeService
	tokenService        *service.TokenService
	userService         *service.UserService
	grantEngine         *service.GrantEngine
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initTracing(ctx); err != nil {
		return nil, err
	}
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("oauth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
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
	app.logger.Info("shutting down oauth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.traceShutdown(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("oauth service stopped")
	return nil
}

func (app *Application) initTracing(ctx context.Context) error {
	shutdown, err := otelx.Setup(ctx, otelx.Config{
		Endpoint:       app.cfg.Tracing.Endpoint,
		ServiceName:    serviceName,
		ServiceVersion: BuildVersion,
		SampleRatio:    app.cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.traceShutdown = shutdown

	if app.cfg.Tracing.Endpoint != "" {
		app.logger.Info("tracing enabled", "endpoint", app.cfg.Tracing.Endpoint)
	}
	return nil
}

// initDatabase opens the configured backend, applies migrations and wraps it
// in the redis cache when enabled.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.Storage.Driver {
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.Storage.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.Storage.PostgresDSN)
	case DriverMemory:
		app.logger.Warn("using in-memory storage, all data is lost on restart")
		db = memory.NewStore()
	default:
		err = fmt.Errorf("unknown storage driver %q", app.cfg.Storage.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database ready", "driver", app.cfg.Storage.Driver)

	if app.cfg.Redis.Enabled {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.cfg.Redis.Addr,
			Password: app.cfg.Redis.Password,
			DB:       app.cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := app.redis.Ping(pingCtx).Err(); err != nil {
			// The cache falls through to the database while redis is down.
			app.logger.Warn("redis unreachable at startup", "addr", app.cfg.Redis.Addr, "error", err)
		}

		db = cached.New(db, app.redis, app.cfg.Redis.CacheTTL, app.logger)
		app.logger.Info("redis cache enabled", "addr", app.cfg.Redis.Addr, "ttl", app.cfg.Redis.CacheTTL)
	}

	app.db = db
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	hasher := cryptox.NewHasher(pepper)

	app.scopeService = &service.ScopeService{Store: app.db}
	app.clientService = &service.ClientService{Store: app.db, Hasher: hasher}
	app.userService = &service.UserService{Store: app.db, Hasher: hasher}
	app.tokenService = &service.TokenService{
		Store:      app.db,
		Scopes:     app.scopeService,
		AccessTTL:  app.cfg.Tokens.AccessTTL,
		RefreshTTL: app.cfg.Tokens.RefreshTTL,
		CodeTTL:    app.cfg.Tokens.CodeTTL,
	}
	app.grantEngine = &service.GrantEngine{
		Clients:             app.clientService,
		Scopes:              app.scopeService,
		Tokens:              app.tokenService,
		RotateRefreshTokens: app.cfg.Tokens.RotateRefreshTokens,
		StoreTimeout:        app.cfg.Storage.Timeout,
	}
	if app.cfg.Tokens.PasswordGrant {
		app.grantEngine.Users = app.userService
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.cfg.AdminToken, app.db, app.logger)

	router.GrantEngine = app.grantEngine
	router.ClientService = app.clientService
	router.ScopeService = app.scopeService
	router.TokenService = app.tokenService
	if app.cfg.Tokens.PasswordGrant {
		router.UserService = app.userService
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
