package auditservice

import (
	"context"

	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	"github.com/uptrace/bun"
)

type FakeAuditRepo struct {
	Inserted []*auditdb.AuditLog

	InsertFunc             func(ctx context.Context, db bun.IDB, entry *auditdb.AuditLog) error
	RecentFunc             func(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Modification, error)
	PointModificationsFunc func(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Modification, error)
}

func (f *FakeAuditRepo) Insert(ctx context.Context, db bun.IDB, entry *auditdb.AuditLog) error {
	if f.InsertFunc != nil {
		if err := f.InsertFunc(ctx, db, entry); err != nil {
			return err
		}
	}
	f.Inserted = append(f.Inserted, entry)
	return nil
}

func (f *FakeAuditRepo) Recent(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Modification, error) {
	if f.RecentFunc != nil {
		return f.RecentFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeAuditRepo) PointModifications(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Modification, error) {
	if f.PointModificationsFunc != nil {
		return f.PointModificationsFunc(ctx, db, limit)
	}
	return nil, nil
}

var _ auditdb.Repository = (*FakeAuditRepo)(nil)
