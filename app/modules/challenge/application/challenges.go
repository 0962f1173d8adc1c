package challengeservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/uptrace/bun"
)

var seasonPattern = regexp.MustCompile(`^\s*(\d{4})\s*-\s*(\d{4})\s*$`)

// ParseSeason parses "YYYY-YYYY" (spaces around the dash allowed) into its
// years. The second year must follow the first.
func ParseSeason(text string) (start, end int, err error) {
	m := seasonPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, ErrInvalidRange
	}
	start, _ = strconv.Atoi(m[1])
	end, _ = strconv.Atoi(m[2])
	if end != start+1 {
		return 0, 0, ErrInvalidRange
	}
	return start, end, nil
}

// CreateChallenge creates the season named by rangeText, or returns the
// existing one with the same name.
func (s *ChallengeService) CreateChallenge(ctx context.Context, rangeText string) (*challengedb.Challenge, error) {
	return execute(s, ctx, "CreateChallenge", rangeText, func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[*challengedb.Challenge, error], error) {
		start, end, err := ParseSeason(rangeText)
		if err != nil {
			return failure[*challengedb.Challenge](err)
		}
		c := &challengedb.Challenge{
			Name:      fmt.Sprintf("%d-%d", start, end),
			StartYear: start,
			EndYear:   end,
		}
		stored, created, err := s.repo.CreateChallenge(ctx, db, c)
		if err != nil {
			return fault[*challengedb.Challenge]("failed to create challenge: %w", err)
		}
		if created {
			m.record(auditservice.ActionCreate, "challenges", stored.ID, nil, stored)
		}
		return success(stored)
	})
}

// ListChallenges returns every season, most recent first.
func (s *ChallengeService) ListChallenges(ctx context.Context) ([]challengedb.Challenge, error) {
	return execute(s, ctx, "ListChallenges", "", func(ctx context.Context, db bun.IDB, _ *mutation) (results.OperationResult[[]challengedb.Challenge, error], error) {
		list, err := s.repo.ListChallenges(ctx, db)
		if err != nil {
			return fault[[]challengedb.Challenge]("failed to list challenges: %w", err)
		}
		return success(list)
	})
}

// DeleteChallenge removes a season together with its raids and results.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, id int64) error {
	_, err := execute(s, ctx, "DeleteChallenge", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[bool, error], error) {
		existing, err := s.repo.GetChallenge(ctx, db, id)
		if err != nil {
			if errors.Is(err, challengedb.ErrNotFound) {
				return failure[bool](err)
			}
			return fault[bool]("failed to load challenge: %w", err)
		}
		if err := s.repo.DeleteChallenge(ctx, db, id); err != nil {
			return fault[bool]("failed to delete challenge: %w", err)
		}
		m.record(auditservice.ActionDelete, "challenges", id, existing, nil)
		m.changed(0, &existing.ID, "challenge deleted")
		return success(true)
	})
	return err
}
