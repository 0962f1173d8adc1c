package importdomain

import (
	"cmp"
	"slices"

	"github.com/Black-And-White-Club/raid-challenge/app/modules/normalize"
)

// DeriveCategoryRanks computes each row's rank within its normalized
// category, following scratch rank order. Rows whose scratch rank is not
// numeric or whose category is empty get no entry. Equal scratch ranks keep
// ingestion order. A nil map is returned when no category column is set.
func DeriveCategoryRanks(t Table, rankColumn, categoryColumn string) map[RowID]int {
	if categoryColumn == "" || rankColumn == "" {
		return nil
	}

	type ranked struct {
		id       RowID
		scratch  float64
		category string
	}

	candidates := make([]ranked, 0, len(t.Rows))
	for _, row := range t.Rows {
		scratch, ok := ParseNumber(row.Get(rankColumn))
		if !ok {
			continue
		}
		category, ok := normalize.Category(row.Get(categoryColumn))
		if !ok {
			continue
		}
		candidates = append(candidates, ranked{id: row.ID, scratch: scratch, category: category})
	}

	slices.SortStableFunc(candidates, func(a, b ranked) int {
		if c := cmp.Compare(a.scratch, b.scratch); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	ranks := make(map[RowID]int, len(candidates))
	next := make(map[string]int)
	for _, c := range candidates {
		next[c.category]++
		ranks[c.id] = next[c.category]
	}
	return ranks
}
