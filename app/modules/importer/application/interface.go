package importservice

import (
	"context"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/google/uuid"
)

// Service runs the two-step import: Analyze builds a pending batch that an
// operator reviews, Commit writes it.
type Service interface {
	BuildConfig(spec ConfigSpec) (importdomain.Config, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)
	GetPending(ctx context.Context, batchID uuid.UUID) (*importdomain.PendingBatch, error)
	Discard(ctx context.Context, batchID uuid.UUID) error
	Commit(ctx context.Context, batchID uuid.UUID, decision importdomain.ImportDecision) (*CommitSummary, error)
}

// PendingStore holds analysed batches until they are committed or discarded.
type PendingStore interface {
	Save(ctx context.Context, batch *importdomain.PendingBatch) error
	Get(ctx context.Context, id uuid.UUID) (*importdomain.PendingBatch, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRecorder appends modifications to the audit log.
type AuditRecorder interface {
	Record(ctx context.Context, entry auditservice.Entry) error
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// ConfigSpec is the wire form of an import configuration.
type ConfigSpec struct {
	Members        []importdomain.MemberSpec `json:"members"`
	RankColumn     string                    `json:"rank_column"`
	PointsColumn   string                    `json:"points_column,omitempty"`
	CategoryColumn string                    `json:"category_column,omitempty"`
	Circuit        string                    `json:"circuit"`
	EventName      string                    `json:"event_name"`
	EventDate      string                    `json:"event_date"`
	ChallengeID    *int64                    `json:"challenge_id,omitempty"`
}

// AnalyzeRequest is one analysis attempt. Decision is PointsUnset until the
// operator has answered a points conflict.
type AnalyzeRequest struct {
	Table    importdomain.Table
	Config   importdomain.Config
	Decision importdomain.PointsSource
	Progress importdomain.ProgressFunc
}

// AnalyzeResult summarises a stored pending batch.
type AnalyzeResult struct {
	BatchID     uuid.UUID                   `json:"batch_id"`
	Event       importdomain.EventKey       `json:"event"`
	Exact       int                         `json:"exact"`
	Conflict    int                         `json:"conflict"`
	New         int                         `json:"new"`
	Stats       importdomain.ExpandStats    `json:"stats"`
	AutoCleaned int                         `json:"auto_cleaned"`
	Conflicts   []importdomain.PendingEntry `json:"conflicts"`
	Warnings    []string                    `json:"warnings,omitempty"`
}

// CommitSummary reports what a commit wrote.
type CommitSummary struct {
	EventID             int64 `json:"event_id"`
	ResultsAdded        int   `json:"results_added"`
	ParticipantsCreated int   `json:"participants_created"`
	Skipped             int   `json:"skipped"`
	AuditFailures       int   `json:"audit_failures"`
}
