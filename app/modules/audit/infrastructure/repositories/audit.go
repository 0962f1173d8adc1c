package auditdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// ResultsTable is the table name recorded for result modifications.
const ResultsTable = "results"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new audit repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Insert appends an entry to the audit log.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, entry *AuditLog) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(entry).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func modifications(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("audit_log AS a").
		ColumnExpr("a.timestamp, a.action, a.table_name, a.record_id, a.old_values, a.new_values, a.user_info").
		ColumnExpr("p.full_name AS full_name").
		ColumnExpr("e.name AS event_name").
		ColumnExpr("e.circuit AS circuit").
		ColumnExpr("r.category AS category").
		Join("LEFT JOIN results AS r ON r.id = a.record_id AND a.table_name = ?", ResultsTable).
		Join("LEFT JOIN participants AS p ON p.id = r.participant_id").
		Join("LEFT JOIN events AS e ON e.id = r.event_id")
}

// Recent returns the latest modifications across every table.
func (r *Impl) Recent(ctx context.Context, db bun.IDB, limit int) ([]Modification, error) {
	db = r.resolveDB(db)
	var rows []Modification
	err := modifications(db).
		OrderExpr("a.timestamp DESC, a.id DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent modifications: %w", err)
	}
	return rows, nil
}

// PointModifications returns the latest UPDATE rows on results.
func (r *Impl) PointModifications(ctx context.Context, db bun.IDB, limit int) ([]Modification, error) {
	db = r.resolveDB(db)
	var rows []Modification
	err := modifications(db).
		Where("a.table_name = ?", ResultsTable).
		Where("a.action = ?", "UPDATE").
		OrderExpr("a.timestamp DESC, a.id DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load point modifications: %w", err)
	}
	return rows, nil
}
