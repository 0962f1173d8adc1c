package challengehandlers

import (
	"context"

	challengeservice "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
)

type FakeService struct {
	CreateChallengeFunc    func(ctx context.Context, rangeText string) (*challengedb.Challenge, error)
	DeleteChallengeFunc    func(ctx context.Context, id int64) error
	ListEventsFunc         func(ctx context.Context, filter challengedb.EventFilter) ([]challengedb.Event, error)
	RenameEventFunc        func(ctx context.Context, id int64, name string) error
	RedateEventFunc        func(ctx context.Context, id int64, dateText string) error
	MoveEventFunc          func(ctx context.Context, id int64, challengeID *int64) error
	DeleteEventFunc        func(ctx context.Context, id int64) (int, error)
	AddManualResultFunc    func(ctx context.Context, req challengeservice.ManualResult) (*challengedb.Result, error)
	UpdateResultPointsFunc func(ctx context.Context, resultID int64, points int) error
	ParticipantResultsFunc func(ctx context.Context, fullName string, filter challengedb.EventFilter) ([]challengedb.ResultView, error)
	FixAberrantResultsFunc func(ctx context.Context) (int, error)

	Calls []string
}

func (f *FakeService) CreateChallenge(ctx context.Context, rangeText string) (*challengedb.Challenge, error) {
	f.Calls = append(f.Calls, "CreateChallenge")
	if f.CreateChallengeFunc != nil {
		return f.CreateChallengeFunc(ctx, rangeText)
	}
	return &challengedb.Challenge{}, nil
}

func (f *FakeService) ListChallenges(ctx context.Context) ([]challengedb.Challenge, error) {
	f.Calls = append(f.Calls, "ListChallenges")
	return nil, nil
}

func (f *FakeService) DeleteChallenge(ctx context.Context, id int64) error {
	f.Calls = append(f.Calls, "DeleteChallenge")
	if f.DeleteChallengeFunc != nil {
		return f.DeleteChallengeFunc(ctx, id)
	}
	return nil
}

func (f *FakeService) ListEvents(ctx context.Context, filter challengedb.EventFilter) ([]challengedb.Event, error) {
	f.Calls = append(f.Calls, "ListEvents")
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx, filter)
	}
	return nil, nil
}

func (f *FakeService) RenameEvent(ctx context.Context, id int64, name string) error {
	f.Calls = append(f.Calls, "RenameEvent")
	if f.RenameEventFunc != nil {
		return f.RenameEventFunc(ctx, id, name)
	}
	return nil
}

func (f *FakeService) RedateEvent(ctx context.Context, id int64, dateText string) error {
	f.Calls = append(f.Calls, "RedateEvent")
	if f.RedateEventFunc != nil {
		return f.RedateEventFunc(ctx, id, dateText)
	}
	return nil
}

func (f *FakeService) MoveEvent(ctx context.Context, id int64, challengeID *int64) error {
	f.Calls = append(f.Calls, "MoveEvent")
	if f.MoveEventFunc != nil {
		return f.MoveEventFunc(ctx, id, challengeID)
	}
	return nil
}

func (f *FakeService) DeleteEvent(ctx context.Context, id int64) (int, error) {
	f.Calls = append(f.Calls, "DeleteEvent")
	if f.DeleteEventFunc != nil {
		return f.DeleteEventFunc(ctx, id)
	}
	return 0, nil
}

func (f *FakeService) AddManualResult(ctx context.Context, req challengeservice.ManualResult) (*challengedb.Result, error) {
	f.Calls = append(f.Calls, "AddManualResult")
	if f.AddManualResultFunc != nil {
		return f.AddManualResultFunc(ctx, req)
	}
	return &challengedb.Result{}, nil
}

func (f *FakeService) UpdateResultPoints(ctx context.Context, resultID int64, points int) error {
	f.Calls = append(f.Calls, "UpdateResultPoints")
	if f.UpdateResultPointsFunc != nil {
		return f.UpdateResultPointsFunc(ctx, resultID, points)
	}
	return nil
}

func (f *FakeService) DeleteResult(ctx context.Context, resultID int64) error {
	f.Calls = append(f.Calls, "DeleteResult")
	return nil
}

func (f *FakeService) ParticipantResults(ctx context.Context, fullName string, filter challengedb.EventFilter) ([]challengedb.ResultView, error) {
	f.Calls = append(f.Calls, "ParticipantResults")
	if f.ParticipantResultsFunc != nil {
		return f.ParticipantResultsFunc(ctx, fullName, filter)
	}
	return nil, nil
}

func (f *FakeService) InvalidParticipants(ctx context.Context) ([]challengedb.InvalidParticipant, error) {
	f.Calls = append(f.Calls, "InvalidParticipants")
	return nil, nil
}

func (f *FakeService) CleanInvalidParticipants(ctx context.Context) (int, error) {
	f.Calls = append(f.Calls, "CleanInvalidParticipants")
	return 0, nil
}

func (f *FakeService) AberrantResults(ctx context.Context) ([]challengedb.ResultView, error) {
	f.Calls = append(f.Calls, "AberrantResults")
	return nil, nil
}

func (f *FakeService) FixAberrantResults(ctx context.Context) (int, error) {
	f.Calls = append(f.Calls, "FixAberrantResults")
	if f.FixAberrantResultsFunc != nil {
		return f.FixAberrantResultsFunc(ctx)
	}
	return 0, nil
}
