// Package leaderboarddomain pivots stored results into per-event standings.
package leaderboarddomain

import (
	"cmp"
	"slices"
	"strings"
	"time"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
)

// AllCategories selects every category.
const AllCategories = ""

// Column is one event of the standings, in date order.
type Column struct {
	EventID int64     `json:"event_id"`
	Name    string    `json:"name"`
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
}

// Row is one (participant, category) line of the standings.
type Row struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Category string `json:"category,omitempty"`
	Points   []int  `json:"points"`
	Total    int    `json:"total"`
}

// Table is a titled standings grid.
type Table struct {
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Columns  []Column `json:"columns"`
	Rows     []Row    `json:"rows"`
}

// Columns orders events by date. Events without results are kept so that
// every raid of the season shows up.
func Columns(events []challengedb.Event) []Column {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b challengedb.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	columns := make([]Column, 0, len(sorted))
	for _, e := range sorted {
		columns = append(columns, Column{
			EventID: e.ID,
			Name:    e.Name,
			Date:    e.Date,
			Label:   normalize.EventColumn(e.Name, e.Date),
		})
	}
	return columns
}

// Pivot sums points per (participant, category) and event. Results for
// events outside columns are ignored. When category is set only results whose
// category matches it are kept. Rows are ordered by total descending, then by
// name.
func Pivot(columns []Column, results []challengedb.ResultView, category string) []Row {
	index := make(map[int64]int, len(columns))
	for i, c := range columns {
		index[c.EventID] = i
	}

	type key struct{ name, category string }
	rows := make(map[key]*Row)
	for _, r := range results {
		col, ok := index[r.EventID]
		if !ok {
			continue
		}
		cat := ""
		if r.Category != nil {
			cat = strings.TrimSpace(*r.Category)
		}
		if category != AllCategories && !normalize.Matches(cat, category) {
			continue
		}

		k := key{name: r.FullName, category: cat}
		row, ok := rows[k]
		if !ok {
			row = &Row{
				Name:     displayName(r.FullName, cat),
				FullName: r.FullName,
				Category: cat,
				Points:   make([]int, len(columns)),
			}
			rows[k] = row
		}
		row.Points[col] += r.Points
		row.Total += r.Points
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b Row) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		if c := cmp.Compare(a.FullName, b.FullName); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func displayName(fullName, category string) string {
	if category == "" {
		return fullName
	}
	return fullName + " (" + category + ")"
}

// Title names a standings table after its circuit and category.
func Title(circuit, category string) string {
	if category == AllCategories {
		return circuit
	}
	return circuit + " - " + category
}

// Build assembles one titled table.
func Build(circuit, category string, columns []Column, results []challengedb.ResultView) Table {
	return Table{
		Title:    Title(circuit, category),
		Category: category,
		Columns:  columns,
		Rows:     Pivot(columns, results, category),
	}
}

// FullReport builds one table per report category (Femme, Mixte, Homme).
// Categories without any result are left out.
func FullReport(circuit string, columns []Column, results []challengedb.ResultView) []Table {
	var sections []Table
	for _, category := range normalize.ReportOrder {
		t := Build(circuit, category, columns, results)
		if len(t.Rows) == 0 {
			continue
		}
		sections = append(sections, t)
	}
	return sections
}

// Progression returns the cumulative points of one participant across
// columns, summing every category the participant ran in.
func Progression(columns []Column, results []challengedb.ResultView, fullName string) []int {
	index := make(map[int64]int, len(columns))
	for i, c := range columns {
		index[c.EventID] = i
	}
	per := make([]int, len(columns))
	for _, r := range results {
		if r.FullName != fullName {
			continue
		}
		if col, ok := index[r.EventID]; ok {
			per[col] += r.Points
		}
	}
	total := 0
	for i, p := range per {
		total += p
		per[i] = total
	}
	return per
}
