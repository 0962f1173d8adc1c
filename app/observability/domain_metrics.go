package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics adds the import pipeline counters to OperationMetrics.
type ImportMetrics interface {
	OperationMetrics
	RecordImportedResults(ctx context.Context, n int)
	RecordPointsConflicts(ctx context.Context, n int)
	RecordVerdicts(ctx context.Context, status string, n int)
	RecordAuditFailure(ctx context.Context)
}

// PrometheusImportMetrics implements ImportMetrics.
type PrometheusImportMetrics struct {
	*PrometheusOperationMetrics
	imported      prometheus.Counter
	conflicts     prometheus.Counter
	verdicts      *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// NewImportMetrics registers the import collectors on reg.
func NewImportMetrics(reg prometheus.Registerer) *PrometheusImportMetrics {
	m := &PrometheusImportMetrics{
		PrometheusOperationMetrics: NewOperationMetrics(reg, "importer"),
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "challenge",
			Subsystem: "importer",
			Name:      "results_imported_total",
			Help:      "Results inserted by committed imports.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "challenge",
			Subsystem: "importer",
			Name:      "points_conflicts_total",
			Help:      "Rows whose file points disagreed with their rank.",
		}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "challenge",
			Subsystem: "importer",
			Name:      "identity_verdicts_total",
			Help:      "Identity matcher verdicts by status.",
		}, []string{"status"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "challenge",
			Subsystem: "importer",
			Name:      "audit_failures_total",
			Help:      "Audit entries that could not be written.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.imported, m.conflicts, m.verdicts, m.auditFailures)
	}
	return m
}

func (m *PrometheusImportMetrics) RecordImportedResults(_ context.Context, n int) {
	m.imported.Add(float64(n))
}

func (m *PrometheusImportMetrics) RecordPointsConflicts(_ context.Context, n int) {
	m.conflicts.Add(float64(n))
}

func (m *PrometheusImportMetrics) RecordVerdicts(_ context.Context, status string, n int) {
	m.verdicts.WithLabelValues(status).Add(float64(n))
}

func (m *PrometheusImportMetrics) RecordAuditFailure(_ context.Context) {
	m.auditFailures.Inc()
}

// NoOpImportMetrics discards everything.
type NoOpImportMetrics struct{ NoOpOperationMetrics }

func (NoOpImportMetrics) RecordImportedResults(context.Context, int)  {}
func (NoOpImportMetrics) RecordPointsConflicts(context.Context, int)  {}
func (NoOpImportMetrics) RecordVerdicts(context.Context, string, int) {}
func (NoOpImportMetrics) RecordAuditFailure(context.Context)          {}

// BackupMetrics adds snapshot counters to OperationMetrics.
type BackupMetrics interface {
	OperationMetrics
	RecordSnapshotCreated(ctx context.Context, bytes int64)
	RecordSnapshotsPruned(ctx context.Context, n int)
}

// PrometheusBackupMetrics implements BackupMetrics.
type PrometheusBackupMetrics struct {
	*PrometheusOperationMetrics
	created prometheus.Counter
	size    prometheus.Gauge
	pruned  prometheus.Counter
}

// NewBackupMetrics registers the backup collectors on reg.
func NewBackupMetrics(reg prometheus.Registerer) *PrometheusBackupMetrics {
	m := &PrometheusBackupMetrics{
		PrometheusOperationMetrics: NewOperationMetrics(reg, "backup"),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "challenge",
			Subsystem: "backup",
			Name:      "snapshots_created_total",
			Help:      "Snapshots written.",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "challenge",
			Subsystem: "backup",
			Name:      "last_snapshot_bytes",
			Help:      "Size of the most recent snapshot.",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "challenge",
			Subsystem: "backup",
			Name:      "snapshots_pruned_total",
			Help:      "Snapshots removed by retention.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.created, m.size, m.pruned)
	}
	return m
}

func (m *PrometheusBackupMetrics) RecordSnapshotCreated(_ context.Context, bytes int64) {
	m.created.Inc()
	m.size.Set(float64(bytes))
}

func (m *PrometheusBackupMetrics) RecordSnapshotsPruned(_ context.Context, n int) {
	m.pruned.Add(float64(n))
}

// NoOpBackupMetrics discards everything.
type NoOpBackupMetrics struct{ NoOpOperationMetrics }

func (NoOpBackupMetrics) RecordSnapshotCreated(context.Context, int64) {}
func (NoOpBackupMetrics) RecordSnapshotsPruned(context.Context, int)   {}
