package auditmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating audit_log table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS audit_log (
				id BIGSERIAL PRIMARY KEY,
				timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				action TEXT NOT NULL,
				table_name TEXT NOT NULL,
				record_id BIGINT,
				old_values JSONB,
				new_values JSONB,
				user_info TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp DESC);
			CREATE INDEX IF NOT EXISTS idx_audit_log_table_action ON audit_log(table_name, action);
		`)
		if err != nil {
			return fmt.Errorf("failed to create audit_log table: %w", err)
		}

		fmt.Println("audit_log table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping audit_log table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS audit_log;`); err != nil {
			return fmt.Errorf("failed to drop audit_log table: %w", err)
		}
		return nil
	})
}
