package challenge

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	challengeservice "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/application"
	challengehandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/handlers"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	challengerouter "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/router"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the challenge module.
type Module struct {
	service    *challengeservice.ChallengeService
	repo       challengedb.Repository
	router     *challengerouter.Router
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewModule creates a new challenge module. viewer and editor guard the
// read and write routes respectively.
func NewModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	audit challengeservice.AuditRecorder,
	publisher challengeservice.Publisher,
	dates *eventdate.Parser,
	viewer, editor func(http.Handler) http.Handler,
) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing challenge module")

	repo := challengedb.NewRepository(db)
	service := challengeservice.NewChallengeService(
		repo,
		audit,
		publisher,
		dates,
		logger,
		observability.NewOperationMetrics(obs.Registry, "challenge"),
		obs.Tracer("challenge"),
		db,
	)
	handlers := challengehandlers.NewChallengeHandlers(service, logger)

	return &Module{
		service: service,
		repo:    repo,
		router:  challengerouter.NewRouter(handlers, viewer, editor),
		logger:  logger,
	}
}

// RegisterRoutes mounts the challenge HTTP routes.
func (m *Module) RegisterRoutes(mux chi.Router) {
	m.router.Mount(mux)
}

// GetService returns the challenge service for use by other modules.
func (m *Module) GetService() *challengeservice.ChallengeService {
	return m.service
}

// GetRepository returns the shared challenge repository.
func (m *Module) GetRepository() challengedb.Repository {
	return m.repo
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting challenge module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Challenge module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping challenge module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
