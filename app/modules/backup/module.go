package backup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	backupservice "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/application"
	backuphandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/infrastructure/handlers"
	backuprouter "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/infrastructure/router"
	backupscheduler "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/infrastructure/scheduler"
	backupstorage "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/infrastructure/storage"
	backupsubscribers "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/infrastructure/subscribers"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/config"
	"github.com/go-chi/chi/v5"
)

// Module represents the backup module.
type Module struct {
	service    *backupservice.BackupService
	router     *backuprouter.Router
	scheduler  *backupscheduler.Scheduler
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewService builds the snapshot service on its own, for the command line.
func NewService(ctx context.Context, cfg *config.Config, obs *observability.Observability, dumper backupservice.Dumper) (*backupservice.BackupService, error) {
	var uploader backupservice.Uploader
	if cfg.Backup.S3.Bucket != "" {
		u, err := backupstorage.NewS3UploaderFromConfig(ctx, cfg.Backup.S3)
		if err != nil {
			return nil, err
		}
		uploader = u
	}
	return backupservice.NewBackupService(
		dumper,
		uploader,
		backupservice.Options{
			Dir:           cfg.Backup.Dir,
			RetentionDays: cfg.Backup.RetentionDays,
			StatusLimit:   cfg.Backup.StatusLimit,
			Prefix:        cfg.Backup.S3.Prefix,
		},
		obs.Logger,
		observability.NewBackupMetrics(obs.Registry),
		obs.Tracer("backup"),
	), nil
}

// NewModule creates a new backup module with its daily scheduler and
// post-import subscriber.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	dumper backupservice.Dumper,
	bus eventbus.EventBus,
	editor func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing backup module")

	service, err := NewService(ctx, cfg, obs, dumper)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup service: %w", err)
	}

	scheduler, err := backupscheduler.NewScheduler(ctx, service, cfg.Backup.Schedule, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup scheduler: %w", err)
	}

	if err := backupsubscribers.NewBackupSubscribers(bus, service, logger).Subscribe(ctx); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	handlers := backuphandlers.NewBackupHandlers(service, cfg.Backup.ManualRetentionDays, logger)

	return &Module{
		service:   service,
		router:    backuprouter.NewRouter(handlers, editor),
		scheduler: scheduler,
		logger:    logger,
	}, nil
}

// RegisterRoutes mounts the backup HTTP routes.
func (m *Module) RegisterRoutes(mux chi.Router) {
	m.router.Mount(mux)
}

// GetService returns the backup service.
func (m *Module) GetService() *backupservice.BackupService {
	return m.service
}

// Run starts the scheduler and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting backup module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	m.scheduler.Start(ctx)

	<-ctx.Done()
	m.logger.Info("Backup module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping backup module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return m.scheduler.Shutdown()
}
