package challengedb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// InsertResults stores results in a single multi-row insert.
func (r *Impl) InsertResults(ctx context.Context, db bun.IDB, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&results).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert results: %w", err)
	}
	return nil
}

// GetResult retrieves a result joined with its event and participant.
func (r *Impl) GetResult(ctx context.Context, db bun.IDB, id int64) (*ResultView, error) {
	db = r.resolveDB(db)
	var rows []ResultView
	if err := resultView(db).Where("r.id = ?", id).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// UpdateResultPoints overwrites a result's points.
func (r *Impl) UpdateResultPoints(ctx context.Context, db bun.IDB, id int64, points int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Result)(nil)).
		Set("points = ?", points).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update result points: %w", err)
	}
	return requireAffected(res, "result update")
}

// DeleteResult removes a result.
func (r *Impl) DeleteResult(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Result)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return requireAffected(res, "result delete")
}

// ResultsForParticipant lists a participant's results, oldest event first.
func (r *Impl) ResultsForParticipant(ctx context.Context, db bun.IDB, fullName string, filter EventFilter) ([]ResultView, error) {
	db = r.resolveDB(db)
	var rows []ResultView
	q := applyFilter(resultView(db).Where("p.full_name = ?", fullName), "e", filter).
		OrderExpr("e.date ASC, e.id ASC")
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list participant results: %w", err)
	}
	return rows, nil
}

// RankTaken returns who already holds rank within category for the event.
func (r *Impl) RankTaken(ctx context.Context, db bun.IDB, eventID int64, rank int, category string) (string, error) {
	db = r.resolveDB(db)
	var rows []ResultView
	err := resultView(db).
		Where("r.event_id = ?", eventID).
		Where("r.rank = ?", rank).
		Where("r.category = ?", category).
		Limit(1).
		Scan(ctx, &rows)
	if err != nil {
		return "", fmt.Errorf("failed to check rank: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].FullName, nil
}

// StandingRows returns every result of the matching events, ordered by
// event date.
func (r *Impl) StandingRows(ctx context.Context, db bun.IDB, filter EventFilter) ([]ResultView, error) {
	db = r.resolveDB(db)
	var rows []ResultView
	q := applyFilter(resultView(db), "e", filter).
		OrderExpr("e.date ASC, e.id ASC, r.rank ASC")
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to load standing rows: %w", err)
	}
	return rows, nil
}

// AberrantResults lists results scored above maxPoints.
func (r *Impl) AberrantResults(ctx context.Context, db bun.IDB, maxPoints int) ([]ResultView, error) {
	db = r.resolveDB(db)
	var rows []ResultView
	err := resultView(db).
		Where("r.points > ?", maxPoints).
		OrderExpr("r.points DESC, r.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list aberrant results: %w", err)
	}
	return rows, nil
}
