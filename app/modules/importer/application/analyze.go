package importservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	challengeservice "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/application"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BuildConfig validates a wire configuration and parses its event date.
func (s *ImportService) BuildConfig(spec ConfigSpec) (importdomain.Config, error) {
	if len(spec.Members) > s.opts.MaxMembers {
		return importdomain.Config{}, fmt.Errorf("%w: at most %d members per row", importdomain.ErrInvalidConfig, s.opts.MaxMembers)
	}
	members := make([]importdomain.MemberMapping, 0, len(spec.Members))
	for _, m := range spec.Members {
		mapping, err := importdomain.NewMemberMapping(m)
		if err != nil {
			return importdomain.Config{}, err
		}
		members = append(members, mapping)
	}

	circuit, ok := importdomain.ParseCircuit(spec.Circuit)
	if !ok {
		return importdomain.Config{}, fmt.Errorf("%w: unknown circuit %q", importdomain.ErrInvalidConfig, spec.Circuit)
	}

	date, err := s.dates.Parse(spec.EventDate)
	if err != nil {
		return importdomain.Config{}, fmt.Errorf("%w: %v", importdomain.ErrInvalidConfig, err)
	}

	return importdomain.Config{
		Members:        members,
		RankColumn:     strings.TrimSpace(spec.RankColumn),
		PointsColumn:   strings.TrimSpace(spec.PointsColumn),
		CategoryColumn: strings.TrimSpace(spec.CategoryColumn),
		Event: importdomain.EventKey{
			Name:        strings.TrimSpace(spec.EventName),
			Date:        date,
			Circuit:     circuit,
			ChallengeID: spec.ChallengeID,
		},
	}, nil
}

// Analyze checks the duplicate-event precondition, derives points, gates on
// points conflicts and expands the table into a stored pending batch.
func (s *ImportService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	cfg := req.Config
	res, _, err := execute(s, ctx, "Analyze", cfg.Event.Name, func(ctx context.Context, db bun.IDB, _ *mutation) (results.OperationResult[*AnalyzeResult, error], error) {
		if err := cfg.Validate(req.Table); err != nil {
			return failure[*AnalyzeResult](err)
		}
		if req.Decision != importdomain.PointsUnset && !req.Decision.Valid() {
			return failure[*AnalyzeResult](fmt.Errorf("%w: unknown points source %q", ErrInvalidDecision, req.Decision))
		}

		key := cfg.Event
		exists, err := s.repo.EventExists(ctx, db, key.Name, key.Date, string(key.Circuit), key.ChallengeID)
		if err != nil {
			return fault[*AnalyzeResult]("failed to check for duplicate event: %w", err)
		}
		if exists {
			return failure[*AnalyzeResult](fmt.Errorf("%w: %s %s (%s)", ErrDuplicateEvent, key.Name, eventdate.Format(key.Date), key.Circuit))
		}

		registry, cleaned, err := s.registry(ctx, db)
		if err != nil {
			return fault[*AnalyzeResult]("failed to load participants: %w", err)
		}

		var categoryRanks map[importdomain.RowID]int
		if cfg.CategoryColumn != "" {
			categoryRanks = importdomain.DeriveCategoryRanks(req.Table, cfg.RankColumn, cfg.CategoryColumn)
		}

		conflicts := importdomain.DetectConflicts(req.Table, cfg.RankColumn, cfg.PointsColumn, categoryRanks)
		s.metrics.RecordPointsConflicts(ctx, len(conflicts))
		if len(conflicts) > 0 && req.Decision == importdomain.PointsUnset {
			return failure[*AnalyzeResult](&PointsDecisionRequiredError{Conflicts: conflicts})
		}

		expander := importdomain.NewExpander(importdomain.NewMatcher(registry, s.opts.Similarity, s.opts.MatchThreshold))
		expander.DefaultRank = s.opts.DefaultRank
		expander.FallbackPoints = s.opts.FallbackPoints
		entries, stats := expander.Expand(req.Table, cfg, categoryRanks, req.Decision, req.Progress)

		batch := &importdomain.PendingBatch{
			ID:           uuid.New(),
			Event:        key,
			Entries:      entries,
			PointsSource: req.Decision,
			CreatedAt:    s.now(),
		}
		s.warnAutoMerges(ctx, batch)

		if err := s.pending.Save(ctx, batch); err != nil {
			return fault[*AnalyzeResult]("failed to store pending batch: %w", err)
		}

		exact, conflict, created := batch.Counts()
		s.metrics.RecordVerdicts(ctx, string(importdomain.StatusExact), exact)
		s.metrics.RecordVerdicts(ctx, string(importdomain.StatusConflict), conflict)
		s.metrics.RecordVerdicts(ctx, string(importdomain.StatusNew), created)

		return success(&AnalyzeResult{
			BatchID:     batch.ID,
			Event:       key,
			Exact:       exact,
			Conflict:    conflict,
			New:         created,
			Stats:       stats,
			AutoCleaned: cleaned,
			Conflicts:   batch.Conflicts(),
			Warnings:    s.warnings(stats),
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// registry returns the known participant names. When participants exist but
// no event does, the leftovers of earlier imports are cleaned first.
func (s *ImportService) registry(ctx context.Context, db bun.IDB) ([]string, int, error) {
	participants, err := s.repo.ListParticipants(ctx, db)
	if err != nil {
		return nil, 0, err
	}

	cleaned := 0
	if len(participants) > 0 {
		events, err := s.repo.CountEvents(ctx, db)
		if err != nil {
			return nil, 0, err
		}
		if events == 0 {
			cleaned, err = challengeservice.CleanInvalid(ctx, s.repo, db)
			if err != nil {
				return nil, 0, err
			}
			if cleaned > 0 {
				s.logger.InfoContext(ctx, "Removed invalid participants before first import",
					attr.ExtractCorrelationID(ctx),
					attr.Int("deleted", cleaned),
				)
				participants, err = s.repo.ListParticipants(ctx, db)
				if err != nil {
					return nil, 0, err
				}
			}
		}
	}

	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.FullName)
	}
	return names, cleaned, nil
}

// warnAutoMerges logs exact verdicts that came from a perfect fuzzy score on
// a differently spelled name, since those merge without review.
func (s *ImportService) warnAutoMerges(ctx context.Context, batch *importdomain.PendingBatch) {
	for _, e := range batch.Entries {
		if e.Status == importdomain.StatusExact && e.MatchedName != e.FullName {
			s.logger.WarnContext(ctx, "Name merged on a perfect similarity score",
				attr.ExtractCorrelationID(ctx),
				attr.BatchID(batch.ID.String()),
				attr.String("imported", e.FullName),
				attr.String("existing", e.MatchedName),
			)
		}
	}
}

func (s *ImportService) warnings(stats importdomain.ExpandStats) []string {
	var out []string
	if stats.MalformedRanks > 0 {
		out = append(out, fmt.Sprintf("%d rows ranked %d: %v", stats.MalformedRanks, s.opts.DefaultRank, ErrMalformedCell))
	}
	if stats.UnusableNames > 0 {
		out = append(out, fmt.Sprintf("%d team slots skipped: %v", stats.UnusableNames, ErrNameUnusable))
	}
	return out
}

// GetPending returns a stored batch.
func (s *ImportService) GetPending(ctx context.Context, batchID uuid.UUID) (*importdomain.PendingBatch, error) {
	result, err := withTelemetry(s, ctx, "GetPending", batchID.String(), func(ctx context.Context) (results.OperationResult[*importdomain.PendingBatch, error], error) {
		batch, err := s.pending.Get(ctx, batchID)
		if errors.Is(err, importdomain.ErrBatchNotFound) {
			return failure[*importdomain.PendingBatch](err)
		}
		if err != nil {
			return fault[*importdomain.PendingBatch]("failed to load pending batch: %w", err)
		}
		return success(batch)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// Discard drops a pending batch. Unknown ids are not an error.
func (s *ImportService) Discard(ctx context.Context, batchID uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "Discard", batchID.String(), func(ctx context.Context) (results.OperationResult[struct{}, error], error) {
		if err := s.pending.Delete(ctx, batchID); err != nil {
			return fault[struct{}]("failed to discard pending batch: %w", err)
		}
		return success(struct{}{})
	})
	return err
}
