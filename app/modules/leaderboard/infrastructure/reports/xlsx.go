package leaderboardreports

import (
	"fmt"
	"strings"

	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// RenderXLSX writes one sheet per section. Event headers keep their
// two-line label, wrapped in the cell.
func RenderXLSX(sections []leaderboarddomain.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if len(sections) == 0 {
		sections = []leaderboarddomain.Table{{Title: "Classement"}}
	}

	used := make(map[string]int)
	for i, section := range sections {
		sheet := sheetName(section.Title, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		headers := tableHeaders(section)
		headerRow := make([]any, len(headers))
		for j, h := range headers {
			headerRow[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
			return nil, err
		}
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
			return nil, err
		}

		for r, row := range section.Rows {
			values := []any{row.Rank, row.Name}
			for _, p := range row.Points {
				values = append(values, p)
			}
			values = append(values, row.Total)

			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName strips the characters Excel refuses, truncates to the length
// limit and suffixes repeats.
func sheetName(title string, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Classement"
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}

	used[name]++
	if n := used[name]; n > 1 {
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(name)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
	}
	return name
}
