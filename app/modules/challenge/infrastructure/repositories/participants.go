package challengedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// FindParticipantByName retrieves a participant by exact full name.
func (r *Impl) FindParticipantByName(ctx context.Context, db bun.IDB, fullName string) (*Participant, error) {
	db = r.resolveDB(db)
	p := new(Participant)
	err := db.NewSelect().
		Model(p).
		Where("full_name = ?", fullName).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, "participant by name")
	}
	return p, nil
}

// CreateParticipant inserts p unless its full name is already registered, in
// which case the existing row is returned.
func (r *Impl) CreateParticipant(ctx context.Context, db bun.IDB, p *Participant) (*Participant, bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(p).
		On("CONFLICT (full_name) DO NOTHING").
		Returning("id").
		Exec(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create participant: %w", err)
	}
	if err == nil && p.ID != 0 {
		if n, rerr := res.RowsAffected(); rerr == nil && n > 0 {
			return p, true, nil
		}
	}

	existing, err := r.FindParticipantByName(ctx, db, p.FullName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing participant %q: %w", p.FullName, err)
	}
	return existing, false, nil
}

// ListParticipants returns every participant ordered by name.
func (r *Impl) ListParticipants(ctx context.Context, db bun.IDB) ([]Participant, error) {
	db = r.resolveDB(db)
	var participants []Participant
	if err := db.NewSelect().Model(&participants).Order("full_name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// InvalidParticipants lists participants whose name is blank or carries a
// missing-value marker, with their result counts.
func (r *Impl) InvalidParticipants(ctx context.Context, db bun.IDB) ([]InvalidParticipant, error) {
	db = r.resolveDB(db)
	var rows []InvalidParticipant
	err := db.NewSelect().
		TableExpr("participants AS p").
		ColumnExpr("p.id AS id").
		ColumnExpr("p.full_name AS full_name").
		ColumnExpr("COUNT(r.id) AS results").
		Join("LEFT JOIN results AS r ON r.participant_id = p.id").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("p.full_name IS NULL").
				WhereOr("TRIM(p.full_name) = ''").
				WhereOr("LOWER(TRIM(p.full_name)) IN ('nan', 'nan nan', 'none', 'null')").
				WhereOr("p.full_name ~* '(^|\\s)nan(\\s|$)'")
		}).
		GroupExpr("p.id, p.full_name").
		OrderExpr("p.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list invalid participants: %w", err)
	}
	return rows, nil
}

// DeleteParticipants removes the given participants, their results first.
func (r *Impl) DeleteParticipants(ctx context.Context, db bun.IDB, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewDelete().
		Model((*Result)(nil)).
		Where("participant_id IN (?)", bun.In(ids)).
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to delete participant results: %w", err)
	}
	res, err := db.NewDelete().
		Model((*Participant)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete participants: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// CountParticipantsWithResults counts distinct participants that hold at
// least one result.
func (r *Impl) CountParticipantsWithResults(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	var n int
	err := db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("COUNT(DISTINCT r.participant_id)").
		Scan(ctx, &n)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}
