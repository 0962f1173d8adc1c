package importdomain

// absent marks a cell the row does not carry at all.
const absent = "\x00"

func buildTable(columns []string, rows ...[]string) Table {
	t := Table{Columns: columns}
	for i, vals := range rows {
		row := Row{ID: RowID(i + 1), Values: make(map[string]Cell, len(columns))}
		for j, col := range columns {
			if j < len(vals) && vals[j] != absent {
				row.Values[col] = Cell{Raw: vals[j], Present: true}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
