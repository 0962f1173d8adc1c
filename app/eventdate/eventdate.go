// Package eventdate parses the dates operators type for raids.
package eventdate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognized is returned when no layout or expression matches.
var ErrUnrecognized = errors.New("unrecognized event date")

// Clock supplies the reference time for relative expressions.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// layouts are tried before natural-language parsing, day-first as written on
// French result sheets.
var layouts = []string{
	time.DateOnly,
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"02-01-2006",
	"02.01.2006",
}

// Parser turns operator input into a calendar date.
type Parser struct {
	w     *when.Parser
	clock Clock
}

// NewParser builds a Parser. A nil clock uses the wall clock.
func NewParser(clock Clock) *Parser {
	if clock == nil {
		clock = RealClock{}
	}
	w := when.New(nil)
	w.Add(en.All...)
	return &Parser{w: w, clock: clock}
}

// Parse returns the date at midnight UTC.
func (p *Parser) Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognized)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}

	r, err := p.w.Parse(strings.ToLower(s), p.clock.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnrecognized, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
	}
	return dateOnly(r.Time), nil
}

// Format renders a date the way it is stored (YYYY-MM-DD).
func Format(t time.Time) string {
	return t.Format(time.DateOnly)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
