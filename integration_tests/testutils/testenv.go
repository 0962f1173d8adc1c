package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	challengeservice "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	importservice "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/application"
	importpending "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/infrastructure/pending"
	leaderboardservice "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/raid-challenge/config"
	"github.com/Black-And-White-Club/raid-challenge/integration_tests/containers"
)

// TestEnvironment holds the Postgres container and the bun connection shared
// by the tests of one package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	DB            *bun.DB
	Config        *config.Config
	Logger        *slog.Logger
}

// NewTestEnvironment starts Postgres and applies every migration.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, connStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	db, err := OpenDB(connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		PgContainer:   pgContainer,
		DB:            db,
		Config:        &config.Config{Postgres: config.PostgresConfig{DSN: connStr}},
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Cleanup closes the connection and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = env.PgContainer.Terminate(ctx)
	}
	env.CancelContext()
}

// Reset empties every table so each test starts from a blank database.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if err := CleanAllIntegrationTables(env.Ctx, env.DB); err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// fixedClock pins "today" so bare day/month dates resolve deterministically.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Services is the application layer wired against the container.
type Services struct {
	Repo        challengedb.Repository
	Audit       *auditservice.AuditService
	Challenge   *challengeservice.ChallengeService
	Import      *importservice.ImportService
	Leaderboard *leaderboardservice.LeaderboardService
	Bus         eventbus.EventBus
}

// NewServices builds every service on a fresh event bus. today anchors the
// event date parser.
func (env *TestEnvironment) NewServices(t *testing.T, today time.Time) *Services {
	t.Helper()

	tracer := noop.NewTracerProvider().Tracer("integration")
	bus := eventbus.NewEventBus(env.Logger)
	t.Cleanup(func() { _ = bus.Close() })

	repo := challengedb.NewRepository(env.DB)
	audit := auditservice.NewAuditService(auditdb.NewRepository(env.DB), env.Logger, nil, tracer)
	dates := eventdate.NewParser(fixedClock{t: today})

	return &Services{
		Repo:        repo,
		Audit:       audit,
		Challenge:   challengeservice.NewChallengeService(repo, audit, bus, dates, env.Logger, nil, tracer, env.DB),
		Import:      importservice.NewImportService(repo, importpending.NewMemoryStore(time.Hour), audit, bus, dates, importservice.Options{}, env.Logger, nil, tracer, env.DB),
		Leaderboard: leaderboardservice.NewLeaderboardService(repo, nil, env.Logger, nil, tracer),
		Bus:         bus,
	}
}
