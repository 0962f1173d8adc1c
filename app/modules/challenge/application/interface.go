package challengeservice

import (
	"context"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
)

// Service manages seasons, raids and stored results.
type Service interface {
	CreateChallenge(ctx context.Context, rangeText string) (*challengedb.Challenge, error)
	ListChallenges(ctx context.Context) ([]challengedb.Challenge, error)
	DeleteChallenge(ctx context.Context, id int64) error

	ListEvents(ctx context.Context, filter challengedb.EventFilter) ([]challengedb.Event, error)
	RenameEvent(ctx context.Context, id int64, name string) error
	RedateEvent(ctx context.Context, id int64, dateText string) error
	MoveEvent(ctx context.Context, id int64, challengeID *int64) error
	DeleteEvent(ctx context.Context, id int64) (int, error)

	AddManualResult(ctx context.Context, req ManualResult) (*challengedb.Result, error)
	UpdateResultPoints(ctx context.Context, resultID int64, points int) error
	DeleteResult(ctx context.Context, resultID int64) error
	ParticipantResults(ctx context.Context, fullName string, filter challengedb.EventFilter) ([]challengedb.ResultView, error)

	InvalidParticipants(ctx context.Context) ([]challengedb.InvalidParticipant, error)
	CleanInvalidParticipants(ctx context.Context) (int, error)
	AberrantResults(ctx context.Context) ([]challengedb.ResultView, error)
	FixAberrantResults(ctx context.Context) (int, error)
}

// AuditRecorder appends modifications to the audit log.
type AuditRecorder interface {
	Record(ctx context.Context, entry auditservice.Entry) error
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// ManualResult is a single result typed in by an operator.
type ManualResult struct {
	EventID    int64  `json:"event_id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Category   string `json:"category"`
	Rank       int    `json:"rank"`
}
