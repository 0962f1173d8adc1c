package auditservice

import (
	"context"
	"errors"
	"testing"
	"time"

	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo *FakeAuditRepo) *AuditService {
	svc := NewAuditService(repo, nil, nil, noop.NewTracerProvider().Tracer("test"))
	svc.now = func() time.Time { return time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestRecord(t *testing.T) {
	id := int64(12)

	tests := []struct {
		name     string
		ctx      context.Context
		entry    Entry
		wantUser string
		wantOld  string
		wantNew  string
	}{
		{
			name:     "defaults to system user",
			ctx:      context.Background(),
			entry:    Entry{Action: ActionCreate, Table: "results", RecordID: &id, After: map[string]int{"points": 35}},
			wantUser: DefaultUser,
			wantNew:  `{"points":35}`,
		},
		{
			name:     "uses context actor",
			ctx:      attr.WithActor(context.Background(), "alice"),
			entry:    Entry{Action: ActionUpdate, Table: "results", RecordID: &id, Before: map[string]int{"points": 20}, After: map[string]int{"points": 35}},
			wantUser: "alice",
			wantOld:  `{"points":20}`,
			wantNew:  `{"points":35}`,
		},
		{
			name:     "explicit user wins",
			ctx:      attr.WithActor(context.Background(), "alice"),
			entry:    Entry{Action: ActionDelete, Table: "events", User: "cli", Before: map[string]string{"name": "Raid A"}},
			wantUser: "cli",
			wantOld:  `{"name":"Raid A"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &FakeAuditRepo{}
			svc := newTestService(repo)

			require.NoError(t, svc.Record(tt.ctx, tt.entry))
			require.Len(t, repo.Inserted, 1)

			row := repo.Inserted[0]
			assert.Equal(t, tt.entry.Action, row.Action)
			assert.Equal(t, tt.entry.Table, row.TableName)
			assert.Equal(t, tt.wantUser, row.UserInfo)
			assert.Equal(t, time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC), row.Timestamp)
			if tt.wantOld == "" {
				assert.Nil(t, row.OldValues)
			} else {
				assert.JSONEq(t, tt.wantOld, string(row.OldValues))
			}
			if tt.wantNew == "" {
				assert.Nil(t, row.NewValues)
			} else {
				assert.JSONEq(t, tt.wantNew, string(row.NewValues))
			}
		})
	}
}

func TestRecord_RepositoryError(t *testing.T) {
	boom := errors.New("db down")
	repo := &FakeAuditRepo{
		InsertFunc: func(ctx context.Context, db bun.IDB, entry *auditdb.AuditLog) error { return boom },
	}
	svc := newTestService(repo)

	err := svc.Record(context.Background(), Entry{Action: ActionCreate, Table: "results"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, repo.Inserted)
}

func TestModificationLimits(t *testing.T) {
	var recentLimit, pointsLimit int
	repo := &FakeAuditRepo{
		RecentFunc: func(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Modification, error) {
			recentLimit = limit
			return []auditdb.Modification{{Action: ActionCreate}}, nil
		},
		PointModificationsFunc: func(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Modification, error) {
			pointsLimit = limit
			return nil, nil
		},
	}
	svc := newTestService(repo)

	rows, err := svc.RecentModifications(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, DefaultRecentLimit, recentLimit)

	_, err = svc.PointModifications(context.Background(), -1)
	require.NoError(t, err)
	assert.Equal(t, DefaultPointsLimit, pointsLimit)

	_, err = svc.RecentModifications(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, recentLimit)
}
