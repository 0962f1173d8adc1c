package backupservice

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BackupService implements the Service interface.
type BackupService struct {
	dumper   Dumper
	uploader Uploader
	opts     Options
	clock    Clock
	logger   *slog.Logger
	metrics  observability.BackupMetrics
	tracer   trace.Tracer
}

// NewBackupService creates a new BackupService. A nil uploader keeps
// snapshots local.
func NewBackupService(
	dumper Dumper,
	uploader Uploader,
	opts Options,
	logger *slog.Logger,
	metrics observability.BackupMetrics,
	tracer trace.Tracer,
) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoOpBackupMetrics{}
	}
	if opts.Dir == "" {
		opts.Dir = "backups"
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 30
	}
	if opts.StatusLimit <= 0 {
		opts.StatusLimit = 10
	}
	return &BackupService{
		dumper:   dumper,
		uploader: uploader,
		opts:     opts,
		clock:    systemClock{},
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// WithClock replaces the wall clock. Used by tests.
func (s *BackupService) WithClock(c Clock) *BackupService {
	s.clock = c
	return s
}

func (s *BackupService) objectKey(name string) string {
	return path.Join(s.opts.Prefix, name)
}

// run wraps op in telemetry and unwraps its result.
func run[S any](
	s *BackupService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, error],
) (S, error) {
	var zero S
	result, err := withTelemetry(s, ctx, operationName, identifier, op)
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *BackupService,
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

func success[S any](v S) (results.OperationResult[S, error], error) {
	return results.SuccessResult[S, error](v), nil
}

func failure[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S, error](err), nil
}

func fault[S any](format string, err error) (results.OperationResult[S, error], error) {
	return results.OperationResult[S, error]{}, fmt.Errorf(format, err)
}
