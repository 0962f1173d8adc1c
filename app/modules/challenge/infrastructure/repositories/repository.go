package challengedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a challenge record is not found.
	ErrNotFound = errors.New("record not found")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new challenge repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func requireAffected(res sql.Result, what string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", what, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// resultView selects the joined result/event/participant columns.
func resultView(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("r.id AS result_id").
		ColumnExpr("e.id AS event_id").
		ColumnExpr("e.name AS event_name").
		ColumnExpr("e.date AS event_date").
		ColumnExpr("e.circuit AS circuit").
		ColumnExpr("e.challenge_id AS challenge_id").
		ColumnExpr("p.id AS participant_id").
		ColumnExpr("p.full_name AS full_name").
		ColumnExpr("r.rank AS rank").
		ColumnExpr("r.points AS points").
		ColumnExpr("r.category AS category").
		Join("JOIN events AS e ON e.id = r.event_id").
		Join("JOIN participants AS p ON p.id = r.participant_id")
}

func applyFilter(q *bun.SelectQuery, alias string, f EventFilter) *bun.SelectQuery {
	if f.ChallengeID != nil {
		q = q.Where("?.challenge_id = ?", bun.Ident(alias), *f.ChallengeID)
	}
	if f.Circuit != "" {
		q = q.Where("?.circuit = ?", bun.Ident(alias), f.Circuit)
	}
	return q
}

// Dump reads every challenge table.
func (r *Impl) Dump(ctx context.Context, db bun.IDB) (*Dump, error) {
	db = r.resolveDB(db)
	d := &Dump{
		Participants: []Participant{},
		Challenges:   []Challenge{},
		Events:       []Event{},
		Results:      []Result{},
	}
	if err := db.NewSelect().Model(&d.Participants).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to dump participants: %w", err)
	}
	if err := db.NewSelect().Model(&d.Challenges).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to dump challenges: %w", err)
	}
	if err := db.NewSelect().Model(&d.Events).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to dump events: %w", err)
	}
	if err := db.NewSelect().Model(&d.Results).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to dump results: %w", err)
	}
	return d, nil
}
