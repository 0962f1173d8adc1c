package leaderboardservice

import (
	"context"
	"time"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Challenge Repo
// ------------------------

type FakeChallengeRepo struct {
	trace []string

	FindParticipantByNameFunc        func(ctx context.Context, db bun.IDB, fullName string) (*challengedb.Participant, error)
	CreateParticipantFunc            func(ctx context.Context, db bun.IDB, p *challengedb.Participant) (*challengedb.Participant, bool, error)
	ListParticipantsFunc             func(ctx context.Context, db bun.IDB) ([]challengedb.Participant, error)
	InvalidParticipantsFunc          func(ctx context.Context, db bun.IDB) ([]challengedb.InvalidParticipant, error)
	DeleteParticipantsFunc           func(ctx context.Context, db bun.IDB, ids []int64) (int, error)
	CreateChallengeFunc              func(ctx context.Context, db bun.IDB, c *challengedb.Challenge) (*challengedb.Challenge, bool, error)
	ListChallengesFunc               func(ctx context.Context, db bun.IDB) ([]challengedb.Challenge, error)
	GetChallengeFunc                 func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Challenge, error)
	DeleteChallengeFunc              func(ctx context.Context, db bun.IDB, id int64) error
	EventExistsFunc                  func(ctx context.Context, db bun.IDB, name string, date time.Time, circuit string, challengeID *int64) (bool, error)
	CreateEventFunc                  func(ctx context.Context, db bun.IDB, e *challengedb.Event) error
	ListEventsFunc                   func(ctx context.Context, db bun.IDB, filter challengedb.EventFilter) ([]challengedb.Event, error)
	GetEventFunc                     func(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error)
	RenameEventFunc                  func(ctx context.Context, db bun.IDB, id int64, name string) error
	RedateEventFunc                  func(ctx context.Context, db bun.IDB, id int64, date time.Time) error
	MoveEventFunc                    func(ctx context.Context, db bun.IDB, id int64, challengeID *int64) error
	DeleteEventFunc                  func(ctx context.Context, db bun.IDB, id int64) error
	CountEventsFunc                  func(ctx context.Context, db bun.IDB) (int, error)
	CountResultsForEventFunc         func(ctx context.Context, db bun.IDB, eventID int64) (int, error)
	LastEventFunc                    func(ctx context.Context, db bun.IDB) (*challengedb.Event, error)
	InsertResultsFunc                func(ctx context.Context, db bun.IDB, rows []challengedb.Result) error
	GetResultFunc                    func(ctx context.Context, db bun.IDB, id int64) (*challengedb.ResultView, error)
	UpdateResultPointsFunc           func(ctx context.Context, db bun.IDB, id int64, points int) error
	DeleteResultFunc                 func(ctx context.Context, db bun.IDB, id int64) error
	ResultsForParticipantFunc        func(ctx context.Context, db bun.IDB, fullName string, filter challengedb.EventFilter) ([]challengedb.ResultView, error)
	RankTakenFunc                    func(ctx context.Context, db bun.IDB, eventID int64, rank int, category string) (string, error)
	StandingRowsFunc                 func(ctx context.Context, db bun.IDB, filter challengedb.EventFilter) ([]challengedb.ResultView, error)
	AberrantResultsFunc              func(ctx context.Context, db bun.IDB, maxPoints int) ([]challengedb.ResultView, error)
	CountParticipantsWithResultsFunc func(ctx context.Context, db bun.IDB) (int, error)
	DumpFunc                         func(ctx context.Context, db bun.IDB) (*challengedb.Dump, error)
}

func NewFakeChallengeRepo() *FakeChallengeRepo {
	return &FakeChallengeRepo{trace: []string{}}
}

func (f *FakeChallengeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeChallengeRepo) FindParticipantByName(ctx context.Context, db bun.IDB, fullName string) (*challengedb.Participant, error) {
	f.record("FindParticipantByName")
	if f.FindParticipantByNameFunc != nil {
		return f.FindParticipantByNameFunc(ctx, db, fullName)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) CreateParticipant(ctx context.Context, db bun.IDB, p *challengedb.Participant) (*challengedb.Participant, bool, error) {
	f.record("CreateParticipant")
	if f.CreateParticipantFunc != nil {
		return f.CreateParticipantFunc(ctx, db, p)
	}
	return p, true, nil
}

func (f *FakeChallengeRepo) ListParticipants(ctx context.Context, db bun.IDB) ([]challengedb.Participant, error) {
	f.record("ListParticipants")
	if f.ListParticipantsFunc != nil {
		return f.ListParticipantsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) InvalidParticipants(ctx context.Context, db bun.IDB) ([]challengedb.InvalidParticipant, error) {
	f.record("InvalidParticipants")
	if f.InvalidParticipantsFunc != nil {
		return f.InvalidParticipantsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) DeleteParticipants(ctx context.Context, db bun.IDB, ids []int64) (int, error) {
	f.record("DeleteParticipants")
	if f.DeleteParticipantsFunc != nil {
		return f.DeleteParticipantsFunc(ctx, db, ids)
	}
	return len(ids), nil
}

func (f *FakeChallengeRepo) CreateChallenge(ctx context.Context, db bun.IDB, c *challengedb.Challenge) (*challengedb.Challenge, bool, error) {
	f.record("CreateChallenge")
	if f.CreateChallengeFunc != nil {
		return f.CreateChallengeFunc(ctx, db, c)
	}
	return c, true, nil
}

func (f *FakeChallengeRepo) ListChallenges(ctx context.Context, db bun.IDB) ([]challengedb.Challenge, error) {
	f.record("ListChallenges")
	if f.ListChallengesFunc != nil {
		return f.ListChallengesFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) GetChallenge(ctx context.Context, db bun.IDB, id int64) (*challengedb.Challenge, error) {
	f.record("GetChallenge")
	if f.GetChallengeFunc != nil {
		return f.GetChallengeFunc(ctx, db, id)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) DeleteChallenge(ctx context.Context, db bun.IDB, id int64) error {
	f.record("DeleteChallenge")
	if f.DeleteChallengeFunc != nil {
		return f.DeleteChallengeFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeChallengeRepo) EventExists(ctx context.Context, db bun.IDB, name string, date time.Time, circuit string, challengeID *int64) (bool, error) {
	f.record("EventExists")
	if f.EventExistsFunc != nil {
		return f.EventExistsFunc(ctx, db, name, date, circuit, challengeID)
	}
	return false, nil
}

func (f *FakeChallengeRepo) CreateEvent(ctx context.Context, db bun.IDB, e *challengedb.Event) error {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, db, e)
	}
	return nil
}

func (f *FakeChallengeRepo) ListEvents(ctx context.Context, db bun.IDB, filter challengedb.EventFilter) ([]challengedb.Event, error) {
	f.record("ListEvents")
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) GetEvent(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, error) {
	f.record("GetEvent")
	if f.GetEventFunc != nil {
		return f.GetEventFunc(ctx, db, id)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) RenameEvent(ctx context.Context, db bun.IDB, id int64, name string) error {
	f.record("RenameEvent")
	if f.RenameEventFunc != nil {
		return f.RenameEventFunc(ctx, db, id, name)
	}
	return nil
}

func (f *FakeChallengeRepo) RedateEvent(ctx context.Context, db bun.IDB, id int64, date time.Time) error {
	f.record("RedateEvent")
	if f.RedateEventFunc != nil {
		return f.RedateEventFunc(ctx, db, id, date)
	}
	return nil
}

func (f *FakeChallengeRepo) MoveEvent(ctx context.Context, db bun.IDB, id int64, challengeID *int64) error {
	f.record("MoveEvent")
	if f.MoveEventFunc != nil {
		return f.MoveEventFunc(ctx, db, id, challengeID)
	}
	return nil
}

func (f *FakeChallengeRepo) DeleteEvent(ctx context.Context, db bun.IDB, id int64) error {
	f.record("DeleteEvent")
	if f.DeleteEventFunc != nil {
		return f.DeleteEventFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeChallengeRepo) CountEvents(ctx context.Context, db bun.IDB) (int, error) {
	f.record("CountEvents")
	if f.CountEventsFunc != nil {
		return f.CountEventsFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeChallengeRepo) CountResultsForEvent(ctx context.Context, db bun.IDB, eventID int64) (int, error) {
	f.record("CountResultsForEvent")
	if f.CountResultsForEventFunc != nil {
		return f.CountResultsForEventFunc(ctx, db, eventID)
	}
	return 0, nil
}

func (f *FakeChallengeRepo) LastEvent(ctx context.Context, db bun.IDB) (*challengedb.Event, error) {
	f.record("LastEvent")
	if f.LastEventFunc != nil {
		return f.LastEventFunc(ctx, db)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) InsertResults(ctx context.Context, db bun.IDB, rows []challengedb.Result) error {
	f.record("InsertResults")
	if f.InsertResultsFunc != nil {
		return f.InsertResultsFunc(ctx, db, rows)
	}
	return nil
}

func (f *FakeChallengeRepo) GetResult(ctx context.Context, db bun.IDB, id int64) (*challengedb.ResultView, error) {
	f.record("GetResult")
	if f.GetResultFunc != nil {
		return f.GetResultFunc(ctx, db, id)
	}
	return nil, challengedb.ErrNotFound
}

func (f *FakeChallengeRepo) UpdateResultPoints(ctx context.Context, db bun.IDB, id int64, points int) error {
	f.record("UpdateResultPoints")
	if f.UpdateResultPointsFunc != nil {
		return f.UpdateResultPointsFunc(ctx, db, id, points)
	}
	return nil
}

func (f *FakeChallengeRepo) DeleteResult(ctx context.Context, db bun.IDB, id int64) error {
	f.record("DeleteResult")
	if f.DeleteResultFunc != nil {
		return f.DeleteResultFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeChallengeRepo) ResultsForParticipant(ctx context.Context, db bun.IDB, fullName string, filter challengedb.EventFilter) ([]challengedb.ResultView, error) {
	f.record("ResultsForParticipant")
	if f.ResultsForParticipantFunc != nil {
		return f.ResultsForParticipantFunc(ctx, db, fullName, filter)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) RankTaken(ctx context.Context, db bun.IDB, eventID int64, rank int, category string) (string, error) {
	f.record("RankTaken")
	if f.RankTakenFunc != nil {
		return f.RankTakenFunc(ctx, db, eventID, rank, category)
	}
	return "", nil
}

func (f *FakeChallengeRepo) StandingRows(ctx context.Context, db bun.IDB, filter challengedb.EventFilter) ([]challengedb.ResultView, error) {
	f.record("StandingRows")
	if f.StandingRowsFunc != nil {
		return f.StandingRowsFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) AberrantResults(ctx context.Context, db bun.IDB, maxPoints int) ([]challengedb.ResultView, error) {
	f.record("AberrantResults")
	if f.AberrantResultsFunc != nil {
		return f.AberrantResultsFunc(ctx, db, maxPoints)
	}
	return nil, nil
}

func (f *FakeChallengeRepo) CountParticipantsWithResults(ctx context.Context, db bun.IDB) (int, error) {
	f.record("CountParticipantsWithResults")
	if f.CountParticipantsWithResultsFunc != nil {
		return f.CountParticipantsWithResultsFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeChallengeRepo) Dump(ctx context.Context, db bun.IDB) (*challengedb.Dump, error) {
	f.record("Dump")
	if f.DumpFunc != nil {
		return f.DumpFunc(ctx, db)
	}
	return &challengedb.Dump{}, nil
}

// Trace returns the repository calls in order.
func (f *FakeChallengeRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ challengedb.Repository = (*FakeChallengeRepo)(nil)
