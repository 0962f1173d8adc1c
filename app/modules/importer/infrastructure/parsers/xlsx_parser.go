package parsers

import (
	"bytes"
	"fmt"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the first sheet of a workbook.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse reads the first sheet, using its first row as the header. Rows
// shorter than the header leave the trailing cells absent.
func (p *XLSXParser) Parse(fileData []byte, fileName string) (*importdomain.Table, error) {
	if len(fileData) == 0 {
		return nil, emptyFile(fileName)
	}

	f, err := excelize.OpenReader(bytes.NewReader(fileData))
	if err != nil {
		return nil, parseError(fileName, err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, parseError(fileName, fmt.Errorf("workbook contains no sheets"))
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, parseError(fileName, fmt.Errorf("failed to read sheet %q: %w", sheetList[0], err))
	}

	// Leading blank rows are skipped so the header is the first non-empty row.
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}

	table, ok := buildTable(rows)
	if !ok {
		return nil, emptyFile(fileName)
	}
	return table, nil
}
