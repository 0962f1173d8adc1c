package importdomain

import (
	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/scoring"
	"github.com/google/uuid"
)

const (
	// DefaultRank replaces scratch ranks that cannot be parsed.
	DefaultRank = 999
	// FallbackPoints is awarded when no category rank is known.
	FallbackPoints = 1
)

// ProgressFunc is called after each row with the number of rows processed.
type ProgressFunc func(done, total int)

// ExpandStats counts what expansion recovered from.
type ExpandStats struct {
	Rows           int `json:"rows"`
	Entries        int `json:"entries"`
	MalformedRanks int `json:"malformed_ranks"`
	UnusableNames  int `json:"unusable_names"`
}

// Expander turns table rows into pending entries, one per team member.
type Expander struct {
	Matcher        *Matcher
	DefaultRank    int
	FallbackPoints int
	NewID          func() uuid.UUID
}

// NewExpander returns an Expander with the standard rank and points defaults.
func NewExpander(matcher *Matcher) *Expander {
	return &Expander{
		Matcher:        matcher,
		DefaultRank:    DefaultRank,
		FallbackPoints: FallbackPoints,
		NewID:          uuid.New,
	}
}

// Expand builds the pending entries for every row of t. The registry seen by
// the matcher is not updated while expanding, so two rows naming the same new
// person both come out as new.
func (e *Expander) Expand(t Table, cfg Config, categoryRanks map[RowID]int, source PointsSource, progress ProgressFunc) ([]PendingEntry, ExpandStats) {
	stats := ExpandStats{Rows: len(t.Rows)}
	var entries []PendingEntry

	for i, row := range t.Rows {
		rank, ok := ParseInt(row.Get(cfg.RankColumn))
		if !ok {
			rank = e.DefaultRank
			stats.MalformedRanks++
		}

		points := e.points(row, cfg, categoryRanks, source)

		var category string
		if cfg.CategoryColumn != "" {
			category, _ = normalize.Category(row.Get(cfg.CategoryColumn))
		}

		for slot, mapping := range cfg.Members {
			given, family := mapping.Extract(row)
			full := normalize.FullName(given, family)
			if normalize.IsPlaceholder(full) || normalize.IsPlaceholder(given) || normalize.IsPlaceholder(family) {
				stats.UnusableNames++
				continue
			}

			verdict := e.Matcher.Match(full)
			entries = append(entries, PendingEntry{
				ID:          e.NewID(),
				RowID:       row.ID,
				Slot:        slot + 1,
				GivenName:   given,
				FamilyName:  family,
				FullName:    full,
				Rank:        rank,
				Points:      points,
				Category:    category,
				Status:      verdict.Status,
				MatchedName: verdict.MatchedName,
				Score:       verdict.Score,
			})
		}

		if progress != nil {
			progress(i+1, len(t.Rows))
		}
	}

	stats.Entries = len(entries)
	return entries, stats
}

// points prefers the file's points unless the operator chose ranks, then the
// scored category rank, then the fixed floor.
func (e *Expander) points(row Row, cfg Config, categoryRanks map[RowID]int, source PointsSource) int {
	if cfg.PointsColumn != "" && source != PointsFromRanks {
		if filePoints, ok := ParseInt(row.Get(cfg.PointsColumn)); ok {
			return filePoints
		}
	}
	if catRank, ok := categoryRanks[row.ID]; ok {
		return scoring.Points(catRank)
	}
	return e.FallbackPoints
}
