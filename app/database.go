package app

import (
	"context"
	"database/sql"
	"fmt"

	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewDB opens the Postgres pool and checks it answers.
func NewDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(
		(*challengedb.Participant)(nil),
		(*challengedb.Challenge)(nil),
		(*challengedb.Event)(nil),
		(*challengedb.Result)(nil),
		(*auditdb.AuditLog)(nil),
	)
	return db, nil
}

// NewRedis connects to Redis. An empty address returns nil: callers fall
// back to in-process storage.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
