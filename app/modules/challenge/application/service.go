package challengeservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChallengeService implements the Service interface.
type ChallengeService struct {
	repo      challengedb.Repository
	audit     AuditRecorder
	publisher Publisher
	dates     *eventdate.Parser
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewChallengeService creates a new ChallengeService.
func NewChallengeService(
	repo challengedb.Repository,
	audit AuditRecorder,
	publisher Publisher,
	dates *eventdate.Parser,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ChallengeService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoOpOperationMetrics{}
	}
	if dates == nil {
		dates = eventdate.NewParser(eventdate.RealClock{})
	}
	return &ChallengeService{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
		dates:     dates,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

// mutation collects the side effects of a write so they can be emitted
// once the transaction has committed.
type mutation struct {
	audits  []auditservice.Entry
	changes []eventbus.ResultsChangedPayload
}

func (m *mutation) record(action, table string, id int64, before, after any) {
	recordID := id
	m.audits = append(m.audits, auditservice.Entry{
		Action:   action,
		Table:    table,
		RecordID: &recordID,
		Before:   before,
		After:    after,
	})
}

func (m *mutation) changed(eventID int64, challengeID *int64, reason string) {
	m.changes = append(m.changes, eventbus.ResultsChangedPayload{
		EventID:     eventID,
		ChallengeID: challengeID,
		Reason:      reason,
	})
}

// flush writes audit entries and publishes change notifications. Failures
// are logged and never undo the committed write.
func (s *ChallengeService) flush(ctx context.Context, m *mutation) {
	for _, entry := range m.audits {
		if s.audit == nil {
			break
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.WarnContext(ctx, "Audit entry dropped",
				attr.ExtractCorrelationID(ctx),
				attr.String("action", entry.Action),
				attr.String("table", entry.Table),
				attr.Error(err),
			)
		}
	}
	for _, change := range m.changes {
		if s.publisher == nil {
			break
		}
		if err := s.publisher.Publish(ctx, eventbus.ResultsChangedTopic, change); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish results change",
				attr.ExtractCorrelationID(ctx),
				attr.EventID(change.EventID),
				attr.Error(err),
			)
		}
	}
}

// execute runs logic in a transaction under telemetry, flushes its side
// effects on success and unwraps the result.
func execute[S any](
	s *ChallengeService,
	ctx context.Context,
	operationName string,
	identifier string,
	logic func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[S, error], error),
) (S, error) {
	var zero S
	m := &mutation{}

	result, err := withTelemetry(s, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error) {
			return logic(ctx, db, m)
		})
	})
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	s.flush(ctx, m)
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ChallengeService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ChallengeService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

func success[S any](v S) (results.OperationResult[S, error], error) {
	return results.SuccessResult[S, error](v), nil
}

func failure[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S, error](err), nil
}

func fault[S any](format string, err error) (results.OperationResult[S, error], error) {
	return results.OperationResult[S, error]{}, fmt.Errorf(format, err)
}
