package challengedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for challenge persistence. Every method
// accepts an optional bun.IDB; nil means the repository's own connection.
type Repository interface {
	// Participants
	FindParticipantByName(ctx context.Context, db bun.IDB, fullName string) (*Participant, error)
	// CreateParticipant inserts a participant unless one with the same full
	// name exists. The bool reports whether a row was inserted.
	CreateParticipant(ctx context.Context, db bun.IDB, p *Participant) (*Participant, bool, error)
	ListParticipants(ctx context.Context, db bun.IDB) ([]Participant, error)
	InvalidParticipants(ctx context.Context, db bun.IDB) ([]InvalidParticipant, error)
	// DeleteParticipants removes the participants and their results.
	DeleteParticipants(ctx context.Context, db bun.IDB, ids []int64) (int, error)

	// Challenges
	CreateChallenge(ctx context.Context, db bun.IDB, c *Challenge) (*Challenge, bool, error)
	ListChallenges(ctx context.Context, db bun.IDB) ([]Challenge, error)
	GetChallenge(ctx context.Context, db bun.IDB, id int64) (*Challenge, error)
	DeleteChallenge(ctx context.Context, db bun.IDB, id int64) error

	// Events
	EventExists(ctx context.Context, db bun.IDB, name string, date time.Time, circuit string, challengeID *int64) (bool, error)
	CreateEvent(ctx context.Context, db bun.IDB, e *Event) error
	ListEvents(ctx context.Context, db bun.IDB, filter EventFilter) ([]Event, error)
	GetEvent(ctx context.Context, db bun.IDB, id int64) (*Event, error)
	RenameEvent(ctx context.Context, db bun.IDB, id int64, name string) error
	RedateEvent(ctx context.Context, db bun.IDB, id int64, date time.Time) error
	MoveEvent(ctx context.Context, db bun.IDB, id int64, challengeID *int64) error
	DeleteEvent(ctx context.Context, db bun.IDB, id int64) error
	CountEvents(ctx context.Context, db bun.IDB) (int, error)
	CountResultsForEvent(ctx context.Context, db bun.IDB, eventID int64) (int, error)
	LastEvent(ctx context.Context, db bun.IDB) (*Event, error)

	// Results
	InsertResults(ctx context.Context, db bun.IDB, results []Result) error
	GetResult(ctx context.Context, db bun.IDB, id int64) (*ResultView, error)
	UpdateResultPoints(ctx context.Context, db bun.IDB, id int64, points int) error
	DeleteResult(ctx context.Context, db bun.IDB, id int64) error
	ResultsForParticipant(ctx context.Context, db bun.IDB, fullName string, filter EventFilter) ([]ResultView, error)
	// RankTaken returns the name of the participant already holding rank in
	// the given category of the event, or "" when the rank is free.
	RankTaken(ctx context.Context, db bun.IDB, eventID int64, rank int, category string) (string, error)
	StandingRows(ctx context.Context, db bun.IDB, filter EventFilter) ([]ResultView, error)
	AberrantResults(ctx context.Context, db bun.IDB, maxPoints int) ([]ResultView, error)
	CountParticipantsWithResults(ctx context.Context, db bun.IDB) (int, error)

	// Dump reads every challenge table for snapshots.
	Dump(ctx context.Context, db bun.IDB) (*Dump, error)
}
