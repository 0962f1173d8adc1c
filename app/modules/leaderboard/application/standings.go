package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
	leaderboardcache "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/cache"
	leaderboardreports "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/infrastructure/reports"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// season is everything needed to pivot one challenge circuit.
type season struct {
	challenge *challengedb.Challenge
	circuit   importdomain.Circuit
	columns   []leaderboarddomain.Column
	results   []challengedb.ResultView
}

func parseCircuit(raw string) (importdomain.Circuit, error) {
	c, ok := importdomain.ParseCircuit(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCircuit, raw)
	}
	return c, nil
}

// parseCategory accepts a canonical category or one of its synonyms. "",
// "all" and "toutes" select every category.
func parseCategory(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "all", "toutes":
		return leaderboarddomain.AllCategories, nil
	}
	label, _ := normalize.Category(s)
	for _, c := range normalize.ReportOrder {
		if label == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// load reads the challenge, its events on circuit and their results.
// A missing challenge is reported as challengedb.ErrNotFound.
func (s *LeaderboardService) load(ctx context.Context, challengeID int64, circuit importdomain.Circuit) (*season, error) {
	challenge, err := s.repo.GetChallenge(ctx, nil, challengeID)
	if err != nil {
		return nil, err
	}
	filter := challengedb.EventFilter{ChallengeID: &challengeID, Circuit: string(circuit)}
	events, err := s.repo.ListEvents(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	rows, err := s.repo.StandingRows(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load standing rows: %w", err)
	}
	return &season{
		challenge: challenge,
		circuit:   circuit,
		columns:   leaderboarddomain.Columns(events),
		results:   rows,
	}, nil
}

// loadOrFail sorts load errors into failures (bad input, unknown challenge)
// and faults.
func loadOrFail[S any](s *LeaderboardService, ctx context.Context, challengeID int64, circuitRaw string) (*season, results.OperationResult[S, error], error) {
	circuit, err := parseCircuit(circuitRaw)
	if err != nil {
		r, e := failure[S](err)
		return nil, r, e
	}
	se, err := s.load(ctx, challengeID, circuit)
	if errors.Is(err, challengedb.ErrNotFound) {
		r, e := failure[S](fmt.Errorf("challenge %d: %w", challengeID, err))
		return nil, r, e
	}
	if err != nil {
		r, e := fault[S]("failed to load season: %w", err)
		return nil, r, e
	}
	return se, results.OperationResult[S, error]{}, nil
}

// Standings returns the pivoted standings for one circuit and category.
// Tables are served from the cache until results change.
func (s *LeaderboardService) Standings(ctx context.Context, q Query) (*leaderboarddomain.Table, error) {
	return run(s, ctx, "Standings", q.Circuit, func(ctx context.Context) (results.OperationResult[*leaderboarddomain.Table, error], error) {
		t, err := s.standings(ctx, q)
		if err != nil {
			return classify[*leaderboarddomain.Table](err)
		}
		return success(t)
	})
}

// classify turns input and lookup errors into failure results.
func classify[S any](err error) (results.OperationResult[S, error], error) {
	switch {
	case errors.Is(err, ErrUnknownCircuit), errors.Is(err, ErrUnknownCategory), errors.Is(err, challengedb.ErrNotFound):
		return failure[S](err)
	default:
		return fault[S]("failed to compute standings: %w", err)
	}
}

func (s *LeaderboardService) standings(ctx context.Context, q Query) (*leaderboarddomain.Table, error) {
	circuit, err := parseCircuit(q.Circuit)
	if err != nil {
		return nil, err
	}
	category, err := parseCategory(q.Category)
	if err != nil {
		return nil, err
	}

	key := leaderboardcache.Key(q.ChallengeID, string(circuit), category)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "Standings cache read failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("key", key),
			attr.Error(err),
		)
	} else if ok {
		return cached, nil
	}

	se, err := s.load(ctx, q.ChallengeID, circuit)
	if err != nil {
		return nil, err
	}
	t := leaderboarddomain.Build(circuit.Title(), category, se.columns, se.results)

	if err := s.cache.Set(ctx, key, &t); err != nil {
		s.logger.WarnContext(ctx, "Standings cache write failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("key", key),
			attr.Error(err),
		)
	}
	return &t, nil
}

// FullCircuitReport returns one section per category in report order.
func (s *LeaderboardService) FullCircuitReport(ctx context.Context, challengeID int64, circuit string) (*Report, error) {
	return run(s, ctx, "FullCircuitReport", circuit, func(ctx context.Context) (results.OperationResult[*Report, error], error) {
		se, res, err := loadOrFail[*Report](s, ctx, challengeID, circuit)
		if se == nil {
			return res, err
		}
		return success(&Report{
			Challenge: se.challenge.Name,
			Circuit:   se.circuit.Title(),
			Sections:  leaderboarddomain.FullReport(se.circuit.Title(), se.columns, se.results),
		})
	})
}

// StandingsPDF renders the Standings table as a PDF.
func (s *LeaderboardService) StandingsPDF(ctx context.Context, q Query) (*File, error) {
	return s.renderStandings(ctx, "StandingsPDF", q, func(name string, t *leaderboarddomain.Table) (*File, error) {
		body, err := s.pdf.Render(name, []leaderboarddomain.Table{*t})
		if err != nil {
			return nil, err
		}
		return &File{ContentType: contentTypePDF, Body: body}, nil
	}, ".pdf")
}

// StandingsXLSX renders the Standings table as a workbook.
func (s *LeaderboardService) StandingsXLSX(ctx context.Context, q Query) (*File, error) {
	return s.renderStandings(ctx, "StandingsXLSX", q, func(_ string, t *leaderboarddomain.Table) (*File, error) {
		body, err := leaderboardreports.RenderXLSX([]leaderboarddomain.Table{*t})
		if err != nil {
			return nil, err
		}
		return &File{ContentType: contentTypeXLSX, Body: body}, nil
	}, ".xlsx")
}

func (s *LeaderboardService) renderStandings(
	ctx context.Context,
	operationName string,
	q Query,
	render func(challenge string, t *leaderboarddomain.Table) (*File, error),
	ext string,
) (*File, error) {
	return run(s, ctx, operationName, q.Circuit, func(ctx context.Context) (results.OperationResult[*File, error], error) {
		t, err := s.standings(ctx, q)
		if err != nil {
			return classify[*File](err)
		}
		challenge, err := s.repo.GetChallenge(ctx, nil, q.ChallengeID)
		if err != nil {
			return fault[*File]("failed to load challenge: %w", err)
		}
		f, err := render(challenge.Name, t)
		if err != nil {
			return fault[*File]("failed to render standings: %w", err)
		}
		circuit, _ := importdomain.ParseCircuit(q.Circuit)
		f.Name = normalize.FileStem("classement", challenge.Name, string(circuit), t.Category) + ext
		return success(f)
	})
}

// ReportPDF renders the full circuit report as a PDF.
func (s *LeaderboardService) ReportPDF(ctx context.Context, challengeID int64, circuit string) (*File, error) {
	return run(s, ctx, "ReportPDF", circuit, func(ctx context.Context) (results.OperationResult[*File, error], error) {
		se, res, err := loadOrFail[*File](s, ctx, challengeID, circuit)
		if se == nil {
			return res, err
		}
		sections := leaderboarddomain.FullReport(se.circuit.Title(), se.columns, se.results)
		body, err := s.pdf.Render(se.challenge.Name, sections)
		if err != nil {
			return fault[*File]("failed to render report: %w", err)
		}
		return success(&File{
			Name:        normalize.FileStem("classement", "complet", se.challenge.Name, string(se.circuit)) + ".pdf",
			ContentType: contentTypePDF,
			Body:        body,
		})
	})
}

// ProgressionChart draws a participant's cumulative points over the
// circuit's events. Participants without any result there are not found.
func (s *LeaderboardService) ProgressionChart(ctx context.Context, fullName string, challengeID int64, circuit string) (*File, error) {
	return run(s, ctx, "ProgressionChart", fullName, func(ctx context.Context) (results.OperationResult[*File, error], error) {
		se, res, err := loadOrFail[*File](s, ctx, challengeID, circuit)
		if se == nil {
			return res, err
		}

		found := false
		for _, r := range se.results {
			if r.FullName == fullName {
				found = true
				break
			}
		}
		if !found {
			return failure[*File](fmt.Errorf("participant %q: %w", fullName, challengedb.ErrNotFound))
		}

		cumulative := leaderboarddomain.Progression(se.columns, se.results, fullName)
		body, err := leaderboardreports.RenderProgression(fullName, se.columns, cumulative, s.palette)
		if err != nil {
			return fault[*File]("failed to render chart: %w", err)
		}
		return success(&File{
			Name:        normalize.FileStem("progression", fullName, string(se.circuit)) + ".png",
			ContentType: contentTypePNG,
			Body:        body,
		})
	})
}

// Summary returns the dashboard headline figures.
func (s *LeaderboardService) Summary(ctx context.Context) (*challengedb.Summary, error) {
	return run(s, ctx, "Summary", "", func(ctx context.Context) (results.OperationResult[*challengedb.Summary, error], error) {
		events, err := s.repo.CountEvents(ctx, nil)
		if err != nil {
			return fault[*challengedb.Summary]("failed to count events: %w", err)
		}
		participants, err := s.repo.CountParticipantsWithResults(ctx, nil)
		if err != nil {
			return fault[*challengedb.Summary]("failed to count participants: %w", err)
		}
		last, err := s.repo.LastEvent(ctx, nil)
		if err != nil && !errors.Is(err, challengedb.ErrNotFound) {
			return fault[*challengedb.Summary]("failed to load last event: %w", err)
		}
		return success(&challengedb.Summary{Events: events, Participants: participants, LastEvent: last})
	})
}

// InvalidateCache drops every cached standings table.
func (s *LeaderboardService) InvalidateCache(ctx context.Context) (int, error) {
	removed, err := s.cache.Invalidate(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Standings cache invalidated",
		attr.ExtractCorrelationID(ctx),
		attr.Int("removed", removed),
	)
	return removed, nil
}
