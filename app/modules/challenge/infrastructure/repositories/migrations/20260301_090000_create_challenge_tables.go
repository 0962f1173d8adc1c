package challengemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating challenge tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS participants (
					id BIGSERIAL PRIMARY KEY,
					full_name TEXT NOT NULL UNIQUE,
					gender TEXT,
					age_category TEXT
				);
			`); err != nil {
				return fmt.Errorf("failed to create participants table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS challenges (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					start_year INT NOT NULL,
					end_year INT NOT NULL
				);
			`); err != nil {
				return fmt.Errorf("failed to create challenges table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS events (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL,
					date DATE NOT NULL,
					circuit TEXT NOT NULL,
					challenge_id BIGINT REFERENCES challenges(id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_events_identity ON events(name, date, circuit, challenge_id);
			`); err != nil {
				return fmt.Errorf("failed to create events table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS results (
					id BIGSERIAL PRIMARY KEY,
					event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					participant_id BIGINT NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
					rank INT NOT NULL,
					points INT NOT NULL,
					category TEXT
				);
				CREATE INDEX IF NOT EXISTS idx_results_event ON results(event_id);
				CREATE INDEX IF NOT EXISTS idx_results_participant ON results(participant_id);
			`); err != nil {
				return fmt.Errorf("failed to create results table: %w", err)
			}

			fmt.Println("Challenge tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping challenge tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS results;
			DROP TABLE IF EXISTS events;
			DROP TABLE IF EXISTS challenges;
			DROP TABLE IF EXISTS participants;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop challenge tables: %w", err)
		}
		return nil
	})
}
