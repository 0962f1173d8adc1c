package importdomain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RowID identifies a row by its 1-based ingestion order. It is assigned once
// by the parser and carried through every derived structure.
type RowID int

// Cell is a raw spreadsheet value. Present is false when the row had no value
// for the column at all.
type Cell struct {
	Raw     string `json:"raw"`
	Present bool   `json:"present"`
}

// Row is one data row of an uploaded table.
type Row struct {
	ID     RowID           `json:"id"`
	Values map[string]Cell `json:"values"`
}

// Get returns the raw value of a column, or "" when it is absent.
func (r Row) Get(column string) string {
	c, ok := r.Values[column]
	if !ok || !c.Present {
		return ""
	}
	return c.Raw
}

// Table is the generic row/column view produced by the file parsers.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the header contains name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Circuit is one of the challenge race series.
type Circuit string

const (
	CircuitTrotteur  Circuit = "trotteur"
	CircuitOrienteur Circuit = "orienteur"
	CircuitRaideur   Circuit = "raideur"
)

// Circuits lists every circuit in display order.
var Circuits = []Circuit{CircuitTrotteur, CircuitOrienteur, CircuitRaideur}

// ParseCircuit accepts a circuit name in any case.
func ParseCircuit(s string) (Circuit, bool) {
	c := Circuit(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Circuits {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Title is the capitalised display name.
func (c Circuit) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// EventKey is the identity tuple of an event. No two events may share it.
type EventKey struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Circuit     Circuit   `json:"circuit"`
	ChallengeID *int64    `json:"challenge_id,omitempty"`
}

// MatchStatus is the identity matcher verdict for an extracted name.
type MatchStatus string

const (
	StatusExact    MatchStatus = "exact"
	StatusConflict MatchStatus = "conflict"
	StatusNew      MatchStatus = "new"
)

// PointsSource is the operator's answer to a points conflict.
type PointsSource string

const (
	PointsUnset     PointsSource = ""
	PointsFromRanks PointsSource = "use_ranks"
	PointsFromFile  PointsSource = "use_file_points"
)

// Valid reports whether s is one of the two explicit choices.
func (s PointsSource) Valid() bool {
	return s == PointsFromRanks || s == PointsFromFile
}

// Resolution settles a conflict entry.
type Resolution string

const (
	ResolveMerge     Resolution = "merge"
	ResolveCreateNew Resolution = "create_new"
)

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	return r == ResolveMerge || r == ResolveCreateNew
}

// ImportDecision carries every operator choice for one import.
type ImportDecision struct {
	PointsSource PointsSource             `json:"points_source,omitempty"`
	Resolutions  map[uuid.UUID]Resolution `json:"resolutions,omitempty"`
}

// PendingEntry is one extracted team member awaiting commit.
type PendingEntry struct {
	ID          uuid.UUID   `json:"id"`
	RowID       RowID       `json:"row_id"`
	Slot        int         `json:"slot"`
	GivenName   string      `json:"given_name"`
	FamilyName  string      `json:"family_name"`
	FullName    string      `json:"full_name"`
	Rank        int         `json:"rank"`
	Points      int         `json:"points"`
	Category    string      `json:"category,omitempty"`
	Status      MatchStatus `json:"status"`
	MatchedName string      `json:"matched_name,omitempty"`
	Score       int         `json:"score"`
}

// PendingBatch holds an analysed import between analysis and commit.
type PendingBatch struct {
	ID           uuid.UUID      `json:"id"`
	Event        EventKey       `json:"event"`
	Entries      []PendingEntry `json:"entries"`
	PointsSource PointsSource   `json:"points_source,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Counts returns the number of entries per status.
func (b *PendingBatch) Counts() (exact, conflict, created int) {
	for _, e := range b.Entries {
		switch e.Status {
		case StatusExact:
			exact++
		case StatusConflict:
			conflict++
		case StatusNew:
			created++
		}
	}
	return exact, conflict, created
}

// Conflicts returns the entries needing a resolution.
func (b *PendingBatch) Conflicts() []PendingEntry {
	var out []PendingEntry
	for _, e := range b.Entries {
		if e.Status == StatusConflict {
			out = append(out, e)
		}
	}
	return out
}

// ParseNumber coerces a cell to a finite number. Decimal commas are accepted.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || f != f || f > maxCell || f < -maxCell {
		return 0, false
	}
	return f, true
}

// ParseInt coerces a cell to an integer. Integral floats such as "3.0"
// (common in spreadsheet exports) are accepted; fractional values are not.
func ParseInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, ok := ParseNumber(s)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}

const maxCell = 1 << 53

// ErrBatchNotFound is returned for unknown or expired pending batches.
var ErrBatchNotFound = errors.New("pending import batch not found")
