package challengeservice

import (
	"context"
	"errors"
	"strconv"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/scoring"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/uptrace/bun"
)

const resultsTable = "results"

// AddManualResult stores a single result typed in by an operator, scored
// from its rank.
func (s *ChallengeService) AddManualResult(ctx context.Context, req ManualResult) (*challengedb.Result, error) {
	return execute(s, ctx, "AddManualResult", strconv.FormatInt(req.EventID, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[*challengedb.Result, error], error) {
		fullName := normalize.FullName(normalize.Name(req.GivenName), normalize.Name(req.FamilyName))
		if normalize.IsPlaceholder(fullName) {
			return failure[*challengedb.Result](ErrEmptyName)
		}
		if req.Rank < 1 {
			return failure[*challengedb.Result](ErrInvalidRank)
		}
		category, ok := normalize.Category(req.Category)
		if !ok {
			return failure[*challengedb.Result](ErrEmptyCategory)
		}

		ev, err := s.repo.GetEvent(ctx, db, req.EventID)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return failure[*challengedb.Result](err)
			}
			return fault[*challengedb.Result]("failed to load event: %w", err)
		}

		holder, err := s.repo.RankTaken(ctx, db, req.EventID, req.Rank, category)
		if err != nil {
			return fault[*challengedb.Result]("failed to check rank: %w", err)
		}
		if holder != "" {
			return failure[*challengedb.Result](&RankTakenError{Rank: req.Rank, Category: category, Holder: holder})
		}

		participant, created, err := s.repo.CreateParticipant(ctx, db, &challengedb.Participant{FullName: fullName})
		if err != nil {
			return fault[*challengedb.Result]("failed to resolve participant: %w", err)
		}
		if created {
			m.record(auditservice.ActionCreate, "participants", participant.ID, nil, participant)
		}

		result := challengedb.Result{
			EventID:       ev.ID,
			ParticipantID: participant.ID,
			Rank:          req.Rank,
			Points:        scoring.Points(req.Rank),
			Category:      &category,
		}
		rows := []challengedb.Result{result}
		if err := s.repo.InsertResults(ctx, db, rows); err != nil {
			return fault[*challengedb.Result]("failed to insert result: %w", err)
		}
		result = rows[0]

		m.record(auditservice.ActionCreate, resultsTable, result.ID, nil, map[string]any{
			"participant": fullName,
			"event":       ev.Name,
			"rank":        result.Rank,
			"points":      result.Points,
			"category":    category,
		})
		m.changed(ev.ID, ev.ChallengeID, "manual result")
		return success(&result)
	})
}

// UpdateResultPoints overwrites a result's points.
func (s *ChallengeService) UpdateResultPoints(ctx context.Context, resultID int64, points int) error {
	_, err := execute(s, ctx, "UpdateResultPoints", strconv.FormatInt(resultID, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[bool, error], error) {
		if points < 0 || points > scoring.MaxPoints {
			return failure[bool](ErrPointsOutOfRange)
		}
		current, err := s.repo.GetResult(ctx, db, resultID)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return failure[bool](err)
			}
			return fault[bool]("failed to load result: %w", err)
		}
		if current.Points == points {
			return success(false)
		}
		if err := s.repo.UpdateResultPoints(ctx, db, resultID, points); err != nil {
			return fault[bool]("failed to update points: %w", err)
		}
		m.record(auditservice.ActionUpdate, resultsTable, resultID,
			map[string]int{"points": current.Points},
			map[string]int{"points": points},
		)
		m.changed(current.EventID, current.ChallengeID, "points corrected")
		return success(true)
	})
	return err
}

// DeleteResult removes a single result.
func (s *ChallengeService) DeleteResult(ctx context.Context, resultID int64) error {
	_, err := execute(s, ctx, "DeleteResult", strconv.FormatInt(resultID, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[bool, error], error) {
		current, err := s.repo.GetResult(ctx, db, resultID)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return failure[bool](err)
			}
			return fault[bool]("failed to load result: %w", err)
		}
		if err := s.repo.DeleteResult(ctx, db, resultID); err != nil {
			return fault[bool]("failed to delete result: %w", err)
		}
		m.record(auditservice.ActionDelete, resultsTable, resultID, current, nil)
		m.changed(current.EventID, current.ChallengeID, "result deleted")
		return success(true)
	})
	return err
}

// ParticipantResults lists one participant's results for correction screens.
func (s *ChallengeService) ParticipantResults(ctx context.Context, fullName string, filter challengedb.EventFilter) ([]challengedb.ResultView, error) {
	return execute(s, ctx, "ParticipantResults", fullName, func(ctx context.Context, db bun.IDB, _ *mutation) (results.OperationResult[[]challengedb.ResultView, error], error) {
		rows, err := s.repo.ResultsForParticipant(ctx, db, fullName, filter)
		if err != nil {
			return fault[[]challengedb.ResultView]("failed to list participant results: %w", err)
		}
		return success(rows)
	})
}
