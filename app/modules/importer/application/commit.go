package importservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	tableEvents       = "events"
	tableParticipants = "participants"
	tableResults      = "results"
)

// Commit writes a pending batch: the event, any new participants and every
// result, in one transaction. The batch is deleted once the commit is done.
func (s *ImportService) Commit(ctx context.Context, batchID uuid.UUID, decision importdomain.ImportDecision) (*CommitSummary, error) {
	summary, m, err := execute(s, ctx, "Commit", batchID.String(), func(ctx context.Context, db bun.IDB, m *mutation) (results.OperationResult[*CommitSummary, error], error) {
		batch, err := s.pending.Get(ctx, batchID)
		if errors.Is(err, importdomain.ErrBatchNotFound) {
			return failure[*CommitSummary](err)
		}
		if err != nil {
			return fault[*CommitSummary]("failed to load pending batch: %w", err)
		}

		if err := checkDecision(batch, decision); err != nil {
			return failure[*CommitSummary](err)
		}

		key := batch.Event
		exists, err := s.repo.EventExists(ctx, db, key.Name, key.Date, string(key.Circuit), key.ChallengeID)
		if err != nil {
			return fault[*CommitSummary]("failed to check for duplicate event: %w", err)
		}
		if exists {
			return failure[*CommitSummary](fmt.Errorf("%w: %s", ErrDuplicateEvent, key.Name))
		}

		event := &challengedb.Event{
			Name:        key.Name,
			Date:        key.Date,
			Circuit:     string(key.Circuit),
			ChallengeID: key.ChallengeID,
		}
		if err := s.repo.CreateEvent(ctx, db, event); err != nil {
			return fault[*CommitSummary]("failed to create event: %w", err)
		}
		m.record(tableEvents, event.ID, event)

		summary := &CommitSummary{EventID: event.ID}
		resolver := &participantResolver{s: s, db: db, m: m, ids: make(map[string]int64)}

		rows := make([]challengedb.Result, 0, len(batch.Entries))
		for _, entry := range batch.Entries {
			participantID, ok, err := resolver.resolve(ctx, entry, decision.Resolutions[entry.ID])
			if err != nil {
				return fault[*CommitSummary]("failed to resolve participant: %w", err)
			}
			if !ok {
				summary.Skipped++
				s.logger.WarnContext(ctx, "Matched participant no longer exists, entry skipped",
					attr.ExtractCorrelationID(ctx),
					attr.BatchID(batch.ID.String()),
					attr.String("matched_name", entry.MatchedName),
				)
				continue
			}
			var category *string
			if entry.Category != "" {
				c := entry.Category
				category = &c
			}
			rows = append(rows, challengedb.Result{
				EventID:       event.ID,
				ParticipantID: participantID,
				Rank:          entry.Rank,
				Points:        entry.Points,
				Category:      category,
			})
		}

		if err := s.repo.InsertResults(ctx, db, rows); err != nil {
			return fault[*CommitSummary]("failed to insert results: %w", err)
		}
		for i := range rows {
			m.record(tableResults, rows[i].ID, rows[i])
		}

		summary.ResultsAdded = len(rows)
		summary.ParticipantsCreated = resolver.created
		m.imported = &eventbus.ResultsImportedPayload{
			EventID:      event.ID,
			ChallengeID:  key.ChallengeID,
			Circuit:      string(key.Circuit),
			ResultsAdded: len(rows),
			CommittedAt:  s.now(),
		}
		return success(summary)
	})
	if err != nil {
		return nil, err
	}

	summary.AuditFailures = s.flush(ctx, m)
	s.metrics.RecordImportedResults(ctx, summary.ResultsAdded)

	if err := s.pending.Delete(ctx, batchID); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete committed batch",
			attr.ExtractCorrelationID(ctx),
			attr.BatchID(batchID.String()),
			attr.Error(err),
		)
	}
	return summary, nil
}

// checkDecision makes sure every conflict entry has a resolution and that the
// decision does not contradict the points source fixed at analysis.
func checkDecision(batch *importdomain.PendingBatch, decision importdomain.ImportDecision) error {
	if decision.PointsSource != importdomain.PointsUnset && decision.PointsSource != batch.PointsSource {
		return fmt.Errorf("%w: points source %q was fixed at analysis as %q", ErrInvalidDecision, decision.PointsSource, batch.PointsSource)
	}
	var missing []uuid.UUID
	for _, e := range batch.Conflicts() {
		r, ok := decision.Resolutions[e.ID]
		if !ok || !r.Valid() {
			missing = append(missing, e.ID)
		}
	}
	if len(missing) > 0 {
		return &UnresolvedConflictError{EntryIDs: missing}
	}
	return nil
}

// participantResolver maps pending entries to participant ids, creating new
// participants as needed. Names resolve once per commit, so a team member
// appearing on several rows is created a single time.
type participantResolver struct {
	s       *ImportService
	db      bun.IDB
	m       *mutation
	ids     map[string]int64
	created int
}

// resolve returns the participant id for entry. ok is false when an existing
// participant the entry was matched to has since been deleted.
func (r *participantResolver) resolve(ctx context.Context, entry importdomain.PendingEntry, resolution importdomain.Resolution) (int64, bool, error) {
	name, create := entry.FullName, true
	switch entry.Status {
	case importdomain.StatusExact:
		name, create = entry.MatchedName, false
	case importdomain.StatusConflict:
		if resolution == importdomain.ResolveMerge {
			name, create = entry.MatchedName, false
		}
	}

	if id, ok := r.ids[name]; ok {
		return id, true, nil
	}

	if !create {
		p, err := r.s.repo.FindParticipantByName(ctx, r.db, name)
		if errors.Is(err, challengedb.ErrNotFound) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		r.ids[name] = p.ID
		return p.ID, true, nil
	}

	p, created, err := r.s.repo.CreateParticipant(ctx, r.db, &challengedb.Participant{FullName: name})
	if err != nil {
		return 0, false, err
	}
	if created {
		r.created++
		r.m.record(tableParticipants, p.ID, p)
	}
	r.ids[name] = p.ID
	return p.ID, true, nil
}
