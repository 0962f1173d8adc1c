package auditservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Recorded actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// DefaultUser is recorded when neither the entry nor the context names an operator.
const DefaultUser = "System"

const (
	DefaultRecentLimit = 50
	DefaultPointsLimit = 20
)

// Entry describes one modification to record. Before and After are
// marshalled to JSON; nil values are stored as NULL.
type Entry struct {
	Action   string
	Table    string
	RecordID *int64
	Before   any
	After    any
	User     string
}

// Service records and lists modifications.
type Service interface {
	Record(ctx context.Context, entry Entry) error
	RecentModifications(ctx context.Context, limit int) ([]auditdb.Modification, error)
	PointModifications(ctx context.Context, limit int) ([]auditdb.Modification, error)
}

// AuditService implements Service. Entries are always written through the
// repository's own connection, outside any caller transaction.
type AuditService struct {
	repo    auditdb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo auditdb.Repository, logger *slog.Logger, metrics observability.OperationMetrics, tracer trace.Tracer) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoOpOperationMetrics{}
	}
	return &AuditService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		now:     time.Now,
	}
}

// Record appends entry to the audit log.
func (s *AuditService) Record(ctx context.Context, entry Entry) error {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "Record", trace.WithAttributes(
			attribute.String("action", entry.Action),
			attribute.String("table", entry.Table),
		))
		defer span.End()
	}
	s.metrics.RecordOperationAttempt(ctx, "Record")

	user := entry.User
	if user == "" {
		user = attr.ActorFromContext(ctx)
	}
	if user == "" {
		user = DefaultUser
	}

	before, err := marshalValues(entry.Before)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "Record")
		return fmt.Errorf("failed to encode previous values: %w", err)
	}
	after, err := marshalValues(entry.After)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "Record")
		return fmt.Errorf("failed to encode new values: %w", err)
	}

	row := &auditdb.AuditLog{
		Timestamp: s.now().UTC(),
		Action:    entry.Action,
		TableName: entry.Table,
		RecordID:  entry.RecordID,
		OldValues: before,
		NewValues: after,
		UserInfo:  user,
	}
	if err := s.repo.Insert(ctx, nil, row); err != nil {
		s.metrics.RecordOperationFailure(ctx, "Record")
		s.logger.WarnContext(ctx, "Failed to record audit entry",
			attr.ExtractCorrelationID(ctx),
			attr.String("action", entry.Action),
			attr.String("table", entry.Table),
			attr.Error(err),
		)
		return err
	}

	s.metrics.RecordOperationSuccess(ctx, "Record")
	return nil
}

// RecentModifications lists the latest modifications, DefaultRecentLimit
// when limit is not positive.
func (s *AuditService) RecentModifications(ctx context.Context, limit int) ([]auditdb.Modification, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.repo.Recent(ctx, nil, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load recent modifications", attr.Error(err))
		return nil, fmt.Errorf("RecentModifications: %w", err)
	}
	return rows, nil
}

// PointModifications lists the latest point corrections, DefaultPointsLimit
// when limit is not positive.
func (s *AuditService) PointModifications(ctx context.Context, limit int) ([]auditdb.Modification, error) {
	if limit <= 0 {
		limit = DefaultPointsLimit
	}
	rows, err := s.repo.PointModifications(ctx, nil, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load point modifications", attr.Error(err))
		return nil, fmt.Errorf("PointModifications: %w", err)
	}
	return rows, nil
}

func marshalValues(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
