package importdomain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
)

// MaxMembers is the largest team an import row can describe.
const MaxMembers = 3

// ErrInvalidConfig wraps every import configuration problem.
var ErrInvalidConfig = errors.New("invalid import configuration")

// MemberMapping extracts one team member's name from a row. It is either a
// SplitMapping or a SingleMapping.
type MemberMapping interface {
	// Extract returns the normalized given and family name parts.
	Extract(row Row) (given, family string)
	Columns() []string
	isMemberMapping()
}

// SplitMapping reads the given and family names from two columns.
type SplitMapping struct {
	GivenColumn  string
	FamilyColumn string
}

func (m SplitMapping) Extract(row Row) (string, string) {
	return normalize.Name(row.Get(m.GivenColumn)), normalize.Name(row.Get(m.FamilyColumn))
}

func (m SplitMapping) Columns() []string { return []string{m.GivenColumn, m.FamilyColumn} }

func (SplitMapping) isMemberMapping() {}

// SingleMapping reads a combined "Given Family" column.
type SingleMapping struct {
	FullColumn string
}

func (m SingleMapping) Extract(row Row) (string, string) {
	return normalize.SplitFullName(normalize.Name(row.Get(m.FullColumn)))
}

func (m SingleMapping) Columns() []string { return []string{m.FullColumn} }

func (SingleMapping) isMemberMapping() {}

// MemberSpec is the wire form of a member mapping.
type MemberSpec struct {
	Mode   string `json:"mode"`
	Given  string `json:"given,omitempty"`
	Family string `json:"family,omitempty"`
	Full   string `json:"full,omitempty"`
}

// NewMemberMapping validates a MemberSpec and builds the matching variant.
func NewMemberMapping(spec MemberSpec) (MemberMapping, error) {
	switch strings.ToLower(strings.TrimSpace(spec.Mode)) {
	case "split":
		if strings.TrimSpace(spec.Given) == "" || strings.TrimSpace(spec.Family) == "" {
			return nil, fmt.Errorf("%w: split mapping needs given and family columns", ErrInvalidConfig)
		}
		return SplitMapping{GivenColumn: spec.Given, FamilyColumn: spec.Family}, nil
	case "single":
		if strings.TrimSpace(spec.Full) == "" {
			return nil, fmt.Errorf("%w: single mapping needs a full name column", ErrInvalidConfig)
		}
		return SingleMapping{FullColumn: spec.Full}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mapping mode %q", ErrInvalidConfig, spec.Mode)
	}
}

// Config describes how to read an uploaded table and which event it feeds.
type Config struct {
	Members        []MemberMapping
	RankColumn     string
	PointsColumn   string
	CategoryColumn string
	Event          EventKey
}

// Validate checks the configuration against a table header.
func (c Config) Validate(t Table) error {
	if len(c.Members) < 1 || len(c.Members) > MaxMembers {
		return fmt.Errorf("%w: expected 1 to %d members, got %d", ErrInvalidConfig, MaxMembers, len(c.Members))
	}
	if strings.TrimSpace(c.Event.Name) == "" {
		return fmt.Errorf("%w: event name is required", ErrInvalidConfig)
	}
	if c.Event.Date.IsZero() {
		return fmt.Errorf("%w: event date is required", ErrInvalidConfig)
	}
	if _, ok := ParseCircuit(string(c.Event.Circuit)); !ok {
		return fmt.Errorf("%w: unknown circuit %q", ErrInvalidConfig, c.Event.Circuit)
	}
	if c.RankColumn == "" {
		return fmt.Errorf("%w: rank column is required", ErrInvalidConfig)
	}

	columns := []string{c.RankColumn}
	for _, m := range c.Members {
		columns = append(columns, m.Columns()...)
	}
	if c.PointsColumn != "" {
		columns = append(columns, c.PointsColumn)
	}
	if c.CategoryColumn != "" {
		columns = append(columns, c.CategoryColumn)
	}
	for _, col := range columns {
		if !t.HasColumn(col) {
			return fmt.Errorf("%w: column %q not found", ErrInvalidConfig, col)
		}
	}
	return nil
}
