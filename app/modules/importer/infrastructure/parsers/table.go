package parsers

import (
	"fmt"
	"strings"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
)

// buildTable turns a header and raw records into a Table. Blank records are
// dropped before row ids are assigned, so ids count data rows from 1.
func buildTable(records [][]string) (*importdomain.Table, bool) {
	if len(records) == 0 {
		return nil, false
	}
	columns := headerNames(records[0])

	table := &importdomain.Table{Columns: columns}
	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		values := make(map[string]importdomain.Cell, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				values[col] = importdomain.Cell{}
				continue
			}
			raw := record[i]
			values[col] = importdomain.Cell{Raw: raw, Present: strings.TrimSpace(raw) != ""}
		}
		table.Rows = append(table.Rows, importdomain.Row{
			ID:     importdomain.RowID(len(table.Rows) + 1),
			Values: values,
		})
	}
	if len(table.Rows) == 0 {
		return nil, false
	}
	return table, true
}

// headerNames trims the header cells, names empty ones "Unnamed: <i>" and
// suffixes repeated names with ".1", ".2" and so on.
func headerNames(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
