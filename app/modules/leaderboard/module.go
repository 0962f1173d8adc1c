package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	leaderboardservice "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/application"
	leaderboardcache "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/cache"
	leaderboardhandlers "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/handlers"
	leaderboardrouter "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/router"
	leaderboardsubscribers "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/subscribers"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/config"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// Module represents the leaderboard module.
type Module struct {
	service     *leaderboardservice.LeaderboardService
	router      *leaderboardrouter.Router
	subscribers *leaderboardsubscribers.LeaderboardSubscribers
	logger      *slog.Logger
	cancelFunc  context.CancelFunc
}

// NewModule creates a new leaderboard module. Standings are cached in Redis
// when a client is given and recomputed on every request otherwise.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	repo challengedb.Repository,
	redisClient *redis.Client,
	bus eventbus.EventBus,
	viewer func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing leaderboard module")

	var cache leaderboardservice.Cache
	if redisClient != nil {
		cache = leaderboardcache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
	}

	service := leaderboardservice.NewLeaderboardService(
		repo,
		cache,
		logger,
		observability.NewOperationMetrics(obs.Registry, "leaderboard"),
		obs.Tracer("leaderboard"),
	)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger)

	subscribers := leaderboardsubscribers.NewLeaderboardSubscribers(bus, service, logger)
	if err := subscribers.Subscribe(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe leaderboard handlers: %w", err)
	}

	return &Module{
		service:     service,
		router:      leaderboardrouter.NewRouter(handlers, viewer),
		subscribers: subscribers,
		logger:      logger,
	}, nil
}

// RegisterRoutes mounts the leaderboard HTTP routes.
func (m *Module) RegisterRoutes(mux chi.Router) {
	m.router.Mount(mux)
}

// GetService returns the leaderboard service.
func (m *Module) GetService() *leaderboardservice.LeaderboardService {
	return m.service
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Leaderboard module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
