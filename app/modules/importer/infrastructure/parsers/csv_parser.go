package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads comma, semicolon or tab separated exports.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse decodes fileData as UTF-8, falling back to Windows-1252 when the
// bytes are not valid UTF-8, and reads the first line as the header.
func (p *CSVParser) Parse(fileData []byte, fileName string) (*importdomain.Table, error) {
	data := bytes.TrimPrefix(fileData, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, parseError(fileName, err)
		}
		data = decoded
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, emptyFile(fileName)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(fileName, err)
		}
		records = append(records, record)
	}

	table, ok := buildTable(records)
	if !ok {
		return nil, emptyFile(fileName)
	}
	return table, nil
}

// detectDelimiter picks the separator that occurs most often outside quotes
// on the header line. Commas win ties.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	counts := map[rune]int{',': 0, ';': 0, '\t': 0}
	inQuotes := false
	for _, r := range string(line) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if _, ok := counts[r]; ok {
			counts[r]++
		}
	}

	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}
