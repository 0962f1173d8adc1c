package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	auditmigrations "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories/migrations"
	challengemigrations "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// appTables lists every table the migrations create, children first.
var appTables = []string{"results", "events", "participants", "challenges", "audit_log"}

// OpenDB connects bun to the container through the pgx stdlib driver.
func OpenDB(connStr string) (*bun.DB, error) {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	return bun.NewDB(sqlDB, pgdialect.New()), nil
}

// RunMigrations applies the challenge and audit migrations with the same
// bookkeeping tables the bun command uses.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	modules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"challenge", challengemigrations.Migrations},
		{"audit", auditmigrations.Migrations},
	}
	for _, m := range modules {
		if err := runModuleMigrations(ctx, db, m.migrations, m.name); err != nil {
			return err
		}
	}
	return nil
}

func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations,
		migrate.WithTableName(name+"_migrations"),
		migrate.WithLocksTableName(name+"_migration_locks"),
	)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init %s migrations: %w", name, err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.ID == 0 {
		log.Printf("No %s migrations to run", name)
	} else {
		log.Printf("Ran %s migrations group #%d", name, group.ID)
	}
	return nil
}

// TruncateTables truncates the given tables and resets their sequences.
func TruncateTables(ctx context.Context, db bun.IDB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanAllIntegrationTables empties every application table.
func CleanAllIntegrationTables(ctx context.Context, db bun.IDB) error {
	return TruncateTables(ctx, db, appTables...)
}
