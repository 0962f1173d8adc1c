package importservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options tunes the import pipeline. Zero values take the package defaults.
type Options struct {
	MatchThreshold int
	DefaultRank    int
	FallbackPoints int
	MaxMembers     int
	Similarity     importdomain.Similarity
}

func (o Options) withDefaults() Options {
	if o.MatchThreshold <= 0 {
		o.MatchThreshold = importdomain.DefaultMatchThreshold
	}
	if o.DefaultRank <= 0 {
		o.DefaultRank = importdomain.DefaultRank
	}
	if o.FallbackPoints <= 0 {
		o.FallbackPoints = importdomain.FallbackPoints
	}
	if o.MaxMembers <= 0 || o.MaxMembers > importdomain.MaxMembers {
		o.MaxMembers = importdomain.MaxMembers
	}
	if o.Similarity == nil {
		o.Similarity = importdomain.TokenSortRatio{}
	}
	return o
}

// ImportService implements the Service interface.
type ImportService struct {
	repo      challengedb.Repository
	pending   PendingStore
	audit     AuditRecorder
	publisher Publisher
	dates     *eventdate.Parser
	opts      Options
	logger    *slog.Logger
	metrics   observability.ImportMetrics
	tracer    trace.Tracer
	db        *bun.DB
	now       func() time.Time
}

// NewImportService creates a new ImportService.
func NewImportService(
	repo challengedb.Repository,
	pending PendingStore,
	audit AuditRecorder,
	publisher Publisher,
	dates *eventdate.Parser,
	opts Options,
	logger *slog.Logger,
	metrics observability.ImportMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoOpImportMetrics{}
	}
	if dates == nil {
		dates = eventdate.NewParser(eventdate.RealClock{})
	}
	return &ImportService{
		repo:      repo,
		pending:   pending,
		audit:     audit,
		publisher: publisher,
		dates:     dates,
		opts:      opts.withDefaults(),
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		now:       time.Now,
	}
}

// mutation collects the audit entries and notifications of a commit so they
// are only emitted once the transaction has gone through.
type mutation struct {
	audits   []auditservice.Entry
	imported *eventbus.ResultsImportedPayload
}

func (m *mutation) record(table string, id int64, after any) {
	recordID := id
	m.audits = append(m.audits, auditservice.Entry{
		Action:   auditservice.ActionCreate,
		Table:    table,
		RecordID: &recordID,
		After:    after,
	})
}

// flush writes the audit entries and publishes the import notification. It
// returns the number of audit entries that could not be written.
func (s *ImportService) flush(ctx context.Context, m *mutation) int {
	failures := 0
	if s.audit != nil {
		for _, entry := range m.audits {
			if err := s.audit.Record(ctx, entry); err != nil {
				failures++
				s.metrics.RecordAuditFailure(ctx)
				s.logger.WarnContext(ctx, "Audit entry dropped",
					attr.ExtractCorrelationID(ctx),
					attr.String("table", entry.Table),
					attr.Error(errors.Join(ErrAuditWrite, err)),
				)
			}
		}
	}
	if s.publisher != nil && m.imported != nil {
		if err := s.publisher.Publish(ctx, eventbus.ResultsImportedTopic, *m.imported); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish import",
				attr.ExtractCorrelationID(ctx),
				attr.EventID(m.imported.EventID),
				attr.Error(err),
			)
		}
	}
	return failures
}

// execute runs logic in a transaction under telemetry and unwraps the result.
// The mutation is returned so the caller can flush it after commit.
func execute[S any](
	s *ImportService,
	ctx context.Context,
	operationName string,
	identifier string,
	logic func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[S, error], error),
) (S, *mutation, error) {
	var zero S
	m := &mutation{}

	result, err := withTelemetry(s, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error) {
			return logic(ctx, db, m)
		})
	})
	if err != nil {
		return zero, nil, err
	}
	if result.IsFailure() {
		return zero, nil, *result.Failure
	}
	return *result.Success, m, nil
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ImportService,
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
	s *ImportService,
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
