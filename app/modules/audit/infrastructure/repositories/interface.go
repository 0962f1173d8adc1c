package auditdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for audit persistence.
type Repository interface {
	// Insert appends an entry to the audit log.
	Insert(ctx context.Context, db bun.IDB, entry *AuditLog) error

	// Recent returns the latest modifications across every table.
	Recent(ctx context.Context, db bun.IDB, limit int) ([]Modification, error)

	// PointModifications returns the latest UPDATE rows on results.
	PointModifications(ctx context.Context, db bun.IDB, limit int) ([]Modification, error)
}
