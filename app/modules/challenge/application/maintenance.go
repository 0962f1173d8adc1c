package challengeservice

import (
	"context"
	"strconv"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/scoring"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/uptrace/bun"
)

// InvalidParticipants lists participants whose name is blank or a
// missing-value marker.
func (s *ChallengeService) InvalidParticipants(ctx context.Context) ([]challengedb.InvalidParticipant, error) {
	return execute(s, ctx, "InvalidParticipants", "", func(ctx context.Context, db bun.IDB, _ *mutation) (results.OperationResult[[]challengedb.InvalidParticipant, error], error) {
		rows, err := s.repo.InvalidParticipants(ctx, db)
		if err != nil {
			return fault[[]challengedb.InvalidParticipant]("failed to list invalid participants: %w", err)
		}
		return success(rows)
	})
}

// CleanInvalidParticipants deletes invalid participants and their results.
func (s *ChallengeService) CleanInvalidParticipants(ctx context.Context) (int, error) {
	return execute(s, ctx, "CleanInvalidParticipants", "", func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[int, error], error) {
		n, err := CleanInvalid(ctx, s.repo, db)
		if err != nil {
			return fault[int]("failed to clean participants: %w", err)
		}
		if n > 0 {
			m.changed(0, nil, "invalid participants removed")
		}
		return success(n)
	})
}

// CleanInvalid deletes every invalid participant through repo and returns
// how many were removed.
func CleanInvalid(ctx context.Context, repo challengedb.Repository, db bun.IDB) (int, error) {
	invalid, err := repo.InvalidParticipants(ctx, db)
	if err != nil {
		return 0, err
	}
	if len(invalid) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(invalid))
	for _, p := range invalid {
		ids = append(ids, p.ID)
	}
	return repo.DeleteParticipants(ctx, db, ids)
}

// AberrantResults lists results scored above the maximum.
func (s *ChallengeService) AberrantResults(ctx context.Context) ([]challengedb.ResultView, error) {
	return execute(s, ctx, "AberrantResults", "", func(ctx context.Context, db bun.IDB, _ *mutation) (results.OperationResult[[]challengedb.ResultView, error], error) {
		rows, err := s.repo.AberrantResults(ctx, db, scoring.MaxPoints)
		if err != nil {
			return fault[[]challengedb.ResultView]("failed to list aberrant results: %w", err)
		}
		return success(rows)
	})
}

// FixAberrantResults rescores every aberrant result from its rank, capped at
// the maximum, and returns how many were changed.
func (s *ChallengeService) FixAberrantResults(ctx context.Context) (int, error) {
	return execute(s, ctx, "FixAberrantResults", strconv.Itoa(scoring.MaxPoints), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[int, error], error) {
		rows, err := s.repo.AberrantResults(ctx, db, scoring.MaxPoints)
		if err != nil {
			return fault[int]("failed to list aberrant results: %w", err)
		}
		fixed := 0
		for _, row := range rows {
			points := min(scoring.MaxPoints, scoring.Points(row.Rank))
			if points == row.Points {
				continue
			}
			if err := s.repo.UpdateResultPoints(ctx, db, row.ResultID, points); err != nil {
				return fault[int]("failed to fix result: %w", err)
			}
			m.record(auditservice.ActionUpdate, resultsTable, row.ResultID,
				map[string]int{"points": row.Points},
				map[string]int{"points": points},
			)
			m.changed(row.EventID, row.ChallengeID, "aberrant points fixed")
			fixed++
		}
		return success(fixed)
	})
}
