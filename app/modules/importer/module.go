package importer

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	importservice "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/application"
	importhandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/handlers"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/parsers"
	importpending "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/pending"
	importrouter "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/router"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/config"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

// pendingTTL is used when the configuration leaves it unset.
const pendingTTL = 2 * time.Hour

// Deps groups the collaborators the import module borrows from the rest of
// the application.
type Deps struct {
	DB        *bun.DB
	Repo      challengedb.Repository
	Redis     *redis.Client
	Audit     importservice.AuditRecorder
	Publisher importservice.Publisher
	Dates     *eventdate.Parser
	Editor    func(http.Handler) http.Handler
}

// Module represents the import module.
type Module struct {
	service    *importservice.ImportService
	router     *importrouter.Router
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewModule creates a new import module. Pending batches live in Redis when
// a client is given and in process memory otherwise.
func NewModule(ctx context.Context, cfg *config.Config, obs *observability.Observability, deps Deps) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing import module")

	ttl := cfg.Redis.PendingTTL
	if ttl <= 0 {
		ttl = pendingTTL
	}
	var pending importservice.PendingStore
	if deps.Redis != nil {
		pending = importpending.NewRedisStore(deps.Redis, ttl)
	} else {
		logger.WarnContext(ctx, "Redis not configured, pending imports are kept in memory")
		pending = importpending.NewMemoryStore(ttl)
	}

	service := importservice.NewImportService(
		deps.Repo,
		pending,
		deps.Audit,
		deps.Publisher,
		deps.Dates,
		importservice.Options{
			MatchThreshold: cfg.Import.MatchThreshold,
			DefaultRank:    cfg.Import.DefaultRank,
			FallbackPoints: cfg.Import.FallbackPoints,
			MaxMembers:     cfg.Import.MaxMembers,
		},
		logger,
		observability.NewImportMetrics(obs.Registry),
		obs.Tracer("importer"),
		deps.DB,
	)
	handlers := importhandlers.NewImportHandlers(service, parsers.NewFactory(), cfg.HTTP.MaxUploadBytes, logger)

	return &Module{
		service: service,
		router:  importrouter.NewRouter(handlers, deps.Editor),
		logger:  logger,
	}
}

// RegisterRoutes mounts the import HTTP routes.
func (m *Module) RegisterRoutes(mux chi.Router) {
	m.router.Mount(mux)
}

// GetService returns the import service.
func (m *Module) GetService() *importservice.ImportService {
	return m.service
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting import module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Import module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping import module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
