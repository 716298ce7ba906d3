package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/taskboard/internal/taskboard/http"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/notify"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/postgres"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application encapsulates the taskboard service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	keys   tokenKeys
	hasher *cryptox.Hasher
	hub    *notify.Hub

	tokenService        *service.TokenService
	userService         *service.UserService
	roleService         *service.RoleService
	projectService      *service.ProjectService
	taskService         *service.TaskService
	seedService         *service.SeedService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// Migrations and the seed run here so a misconfigured database fails fast.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "taskboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}
	ctx = slogx.WithContext(ctx, app.logger)

	pepper, err := InitPepper(cfg)
	if err != nil {
		return nil, err
	}
	app.hasher = cryptox.NewHasher(pepper)

	if app.keys, err = InitTokenKeys(cfg, app.logger); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.seedService.Seed(ctx); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	app.initHTTP()
	return app, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.housekeepingService.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("taskboard starting", "port", app.cfg.Port, "version", BuildVersion, "database", app.cfg.DatabaseDriver)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested", "cause", context.Cause(gctx))
		return app.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down taskboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Websocket connections are hijacked and not tracked by the server.
	app.hub.Close()
	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("taskboard stopped")
	return nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initServices() {
	app.hub = notify.NewHub(notify.HubConfig{
		CheckOrigin: checkOrigin(app.cfg.CORSAllowedOrigins),
		Logger:      app.logger,
	})

	app.tokenService = &service.TokenService{
		Store:    app.db,
		Signer:   app.keys.signer,
		Verifier: app.keys.verifier,
		Issuer:   app.cfg.TokenIssuer,
		TTL:      app.cfg.TokenTTL,
	}
	app.userService = &service.UserService{Store: app.db, Hasher: app.hasher, Tokens: app.tokenService}
	app.roleService = &service.RoleService{Store: app.db}
	app.projectService = &service.ProjectService{Store: app.db}
	app.taskService = &service.TaskService{Store: app.db, Notifier: notify.NewNotifier(app.hub)}
	app.seedService = &service.SeedService{
		Store:  app.db,
		Hasher: app.hasher,
		Admin: service.AdminAccount{
			Name:     app.cfg.AdminName,
			Email:    app.cfg.AdminEmail,
			Password: app.cfg.AdminPassword,
		},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(httpapi.RouterConfig{
		BuildVersion: BuildVersion,
		CORS:         httpx.CORSConfig{AllowedOrigins: app.cfg.CORSAllowedOrigins},
		RateLimits:   app.cfg.RateLimits,
	}, app.db, app.hub, app.logger)

	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.RoleService = app.roleService
	router.ProjectService = app.projectService
	router.TaskService = app.taskService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// checkOrigin accepts websocket handshakes from the CORS origins, and from
// the serving host itself.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
