package challengeservice

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/uptrace/bun"
)

// ListEvents returns raids matching filter in date order.
func (s *ChallengeService) ListEvents(ctx context.Context, filter challengedb.EventFilter) ([]challengedb.Event, error) {
	return execute(s, ctx, "ListEvents", filter.Circuit, func(ctx context.Context, db bun.IDB, _ *mutation) (results.OperationResult[[]challengedb.Event, error], error) {
		events, err := s.repo.ListEvents(ctx, db, filter)
		if err != nil {
			return fault[[]challengedb.Event]("failed to list events: %w", err)
		}
		return success(events)
	})
}

func (s *ChallengeService) loadEvent(ctx context.Context, db bun.IDB, id int64) (*challengedb.Event, results.OperationResult[bool, error], error) {
	ev, err := s.repo.GetEvent(ctx, db, id)
	if err != nil {
		if errors.Is(err, challengedb.ErrNotFound) {
			r, _ := failure[bool](err)
			return nil, r, nil
		}
		r, ferr := fault[bool]("failed to load event: %w", err)
		return nil, r, ferr
	}
	return ev, results.OperationResult[bool, error]{}, nil
}

// RenameEvent changes a raid's name.
func (s *ChallengeService) RenameEvent(ctx context.Context, id int64, name string) error {
	_, err := execute(s, ctx, "RenameEvent", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[bool, error], error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return failure[bool](ErrEmptyName)
		}
		ev, r, err := s.loadEvent(ctx, db, id)
		if ev == nil {
			return r, err
		}
		if ev.Name == name {
			return success(true)
		}
		if err := s.repo.RenameEvent(ctx, db, id, name); err != nil {
			return fault[bool]("failed to rename event: %w", err)
		}
		m.record(auditservice.ActionUpdate, "events", id, map[string]string{"name": ev.Name}, map[string]string{"name": name})
		m.changed(id, ev.ChallengeID, "event renamed")
		return success(true)
	})
	return err
}

// RedateEvent moves a raid to the date described by dateText.
func (s *ChallengeService) RedateEvent(ctx context.Context, id int64, dateText string) error {
	_, err := execute(s, ctx, "RedateEvent", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[bool, error], error) {
		date, perr := s.dates.Parse(dateText)
		if perr != nil {
			return failure[bool](errors.Join(ErrInvalidDate, perr))
		}
		ev, r, err := s.loadEvent(ctx, db, id)
		if ev == nil {
			return r, err
		}
		if err := s.repo.RedateEvent(ctx, db, id, date); err != nil {
			return fault[bool]("failed to redate event: %w", err)
		}
		m.record(auditservice.ActionUpdate, "events", id,
			map[string]string{"date": eventdate.Format(ev.Date)},
			map[string]string{"date": eventdate.Format(date)},
		)
		m.changed(id, ev.ChallengeID, "event redated")
		return success(true)
	})
	return err
}

// MoveEvent attaches a raid to another season, or detaches it when
// challengeID is nil. The target season must exist.
func (s *ChallengeService) MoveEvent(ctx context.Context, id int64, challengeID *int64) error {
	_, err := execute(s, ctx, "MoveEvent", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[bool, error], error) {
		ev, r, err := s.loadEvent(ctx, db, id)
		if ev == nil {
			return r, err
		}
		if sameChallenge(ev.ChallengeID, challengeID) {
			return success(false)
		}
		if challengeID != nil {
			if _, err := s.repo.GetChallenge(ctx, db, *challengeID); err != nil {
				if errors.Is(err, challengedb.ErrNotFound) {
					return failure[bool](err)
				}
				return fault[bool]("failed to load challenge: %w", err)
			}
		}
		if err := s.repo.MoveEvent(ctx, db, id, challengeID); err != nil {
			return fault[bool]("failed to move event: %w", err)
		}
		m.record(auditservice.ActionUpdate, "events", id,
			map[string]*int64{"challenge_id": ev.ChallengeID},
			map[string]*int64{"challenge_id": challengeID},
		)
		m.changed(id, ev.ChallengeID, "event moved")
		m.changed(id, challengeID, "event moved")
		return success(true)
	})
	return err
}

func sameChallenge(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DeleteEvent removes a raid and returns how many results went with it.
func (s *ChallengeService) DeleteEvent(ctx context.Context, id int64) (int, error) {
	return execute(s, ctx, "DeleteEvent", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[int, error], error) {
		ev, err := s.repo.GetEvent(ctx, db, id)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return failure[int](err)
			}
			return fault[int]("failed to load event: %w", err)
		}
		removed, err := s.repo.CountResultsForEvent(ctx, db, id)
		if err != nil {
			return fault[int]("failed to count event results: %w", err)
		}
		if err := s.repo.DeleteEvent(ctx, db, id); err != nil {
			return fault[int]("failed to delete event: %w", err)
		}
		m.record(auditservice.ActionDelete, "events", id, map[string]any{
			"name":    ev.Name,
			"date":    eventdate.Format(ev.Date),
			"circuit": ev.Circuit,
			"results": removed,
		}, nil)
		m.changed(id, ev.ChallengeID, "event deleted")
		return success(removed)
	})
}
