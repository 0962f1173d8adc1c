package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/audit"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/auth"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/backup"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/challenge"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/importer"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/config"
	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 10 * time.Second

// runner is a module with a background loop.
type runner interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

// Modules holds every feature module.
type Modules struct {
	Auth        *auth.Module
	Audit       *audit.Module
	Challenge   *challenge.Module
	Importer    *importer.Module
	Leaderboard *leaderboard.Module
	Backup      *backup.Module
}

// App wires the database, Redis, the event bus and the modules behind one
// HTTP router.
type App struct {
	Config   *config.Config
	Obs      *observability.Observability
	DB       *bun.DB
	Redis    *redis.Client
	EventBus eventbus.EventBus
	Modules  Modules

	router *chi.Mux
	logger *slog.Logger
}

// NewApp connects the infrastructure and builds every module.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	db, err := NewDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	app := &App{
		Config:   cfg,
		Obs:      obs,
		DB:       db,
		Redis:    redisClient,
		EventBus: eventbus.NewEventBus(logger),
		logger:   logger,
	}
	if err := app.initModules(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.router = app.buildRouter()

	logger.InfoContext(ctx, "Application initialized",
		attr.Bool("redis", redisClient != nil),
		attr.Bool("s3", cfg.Backup.S3.Bucket != ""),
	)
	return app, nil
}

func (app *App) initModules(ctx context.Context) error {
	cfg, obs := app.Config, app.Obs

	authModule := auth.NewModule(ctx, cfg, obs)
	viewer := authModule.Require(pkgjwt.RoleViewer)
	editor := authModule.Require(pkgjwt.RoleEditor)

	dates := eventdate.NewParser(eventdate.RealClock{})

	auditModule := audit.NewModule(ctx, obs, app.DB, viewer)
	challengeModule := challenge.NewModule(ctx, obs, app.DB, auditModule.GetService(), app.EventBus, dates, viewer, editor)

	importModule := importer.NewModule(ctx, cfg, obs, importer.Deps{
		DB:        app.DB,
		Repo:      challengeModule.GetRepository(),
		Redis:     app.Redis,
		Audit:     auditModule.GetService(),
		Publisher: app.EventBus,
		Dates:     dates,
		Editor:    editor,
	})

	leaderboardModule, err := leaderboard.NewModule(ctx, cfg, obs, challengeModule.GetRepository(), app.Redis, app.EventBus, viewer)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	backupModule, err := backup.NewModule(ctx, cfg, obs, challengeModule.GetRepository(), app.EventBus, editor)
	if err != nil {
		return fmt.Errorf("failed to initialize backup module: %w", err)
	}

	app.Modules = Modules{
		Auth:        authModule,
		Audit:       auditModule,
		Challenge:   challengeModule,
		Importer:    importModule,
		Leaderboard: leaderboardModule,
		Backup:      backupModule,
	}
	return nil
}

func (app *App) buildRouter() *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	mux.Use(app.Modules.Auth.Middlewares()...)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	app.Modules.Auth.RegisterRoutes(mux)
	app.Modules.Audit.RegisterRoutes(mux)
	app.Modules.Challenge.RegisterRoutes(mux)
	app.Modules.Importer.RegisterRoutes(mux)
	app.Modules.Leaderboard.RegisterRoutes(mux)
	app.Modules.Backup.RegisterRoutes(mux)
	return mux
}

// Handler returns the API router.
func (app *App) Handler() http.Handler {
	return app.router
}

func (app *App) runners() []runner {
	return []runner{
		app.Modules.Challenge,
		app.Modules.Importer,
		app.Modules.Leaderboard,
		app.Modules.Backup,
	}
}

// Run serves the API and the metrics endpoint until ctx is cancelled, then
// drains the servers and stops the modules.
func (app *App) Run(ctx context.Context) error {
	runCtx, stopModules := context.WithCancel(ctx)
	defer stopModules()

	var wg sync.WaitGroup
	for _, m := range app.runners() {
		wg.Add(1)
		go m.Run(runCtx, &wg)
	}

	api := &http.Server{Addr: app.Config.HTTP.Addr, Handler: app.router, ReadHeaderTimeout: 10 * time.Second}
	servers := []*http.Server{api}
	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.HandlerFor(app.Obs.Registry, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{Addr: addr, Handler: metricsMux, ReadHeaderTimeout: 10 * time.Second})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			app.logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		app.logger.Error("HTTP server failed", attr.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("HTTP server shutdown failed", attr.String("addr", srv.Addr), attr.Error(err))
		}
	}

	stopModules()
	for _, m := range app.runners() {
		if err := m.Close(); err != nil {
			app.logger.Error("Module close failed", attr.Error(err))
		}
	}
	wg.Wait()
	return runErr
}

// Close releases the event bus, Redis and the database pool.
func (app *App) Close() error {
	var errs []error
	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
	}
	if app.Redis != nil {
		errs = append(errs, app.Redis.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
