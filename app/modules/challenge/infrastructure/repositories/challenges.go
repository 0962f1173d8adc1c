package challengedb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateChallenge inserts c unless a challenge with the same name exists.
// The bool reports whether a row was inserted.
func (r *Impl) CreateChallenge(ctx context.Context, db bun.IDB, c *Challenge) (*Challenge, bool, error) {
	db = r.resolveDB(db)
	existing := new(Challenge)
	err := db.NewSelect().Model(existing).Where("name = ?", c.Name).Limit(1).Scan(ctx)
	if err == nil {
		return existing, false, nil
	}
	if nf := notFound(err, "challenge by name"); nf != ErrNotFound {
		return nil, false, nf
	}

	if _, err := db.NewInsert().Model(c).Returning("id").Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to create challenge: %w", err)
	}
	return c, true, nil
}

// ListChallenges returns challenges, most recent season first.
func (r *Impl) ListChallenges(ctx context.Context, db bun.IDB) ([]Challenge, error) {
	db = r.resolveDB(db)
	var challenges []Challenge
	if err := db.NewSelect().Model(&challenges).Order("start_year DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

// GetChallenge retrieves a challenge by id.
func (r *Impl) GetChallenge(ctx context.Context, db bun.IDB, id int64) (*Challenge, error) {
	db = r.resolveDB(db)
	c := new(Challenge)
	if err := db.NewSelect().Model(c).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err, "challenge")
	}
	return c, nil
}

// DeleteChallenge removes a challenge; events and results cascade.
func (r *Impl) DeleteChallenge(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Challenge)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return requireAffected(res, "challenge delete")
}
