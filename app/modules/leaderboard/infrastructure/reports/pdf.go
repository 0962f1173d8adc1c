// Package leaderboardreports renders standings tables as PDF, XLSX and PNG.
package leaderboardreports

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
	"github.com/go-pdf/fpdf"
)

const (
	reportTitle = "Challenge Regional de Raids d'Orientation"

	rankHeader = "Classement"
	nameHeader = "Nom Prénom"

	headerHeight = 12.0
	rowHeight    = 7.0
	rankWidth    = 14.0
	nameWidth    = 80.0
	minNameWidth = 45.0
	minColWidth  = 12.0
	fitColWidth  = 16.0

	// landscapeAbove switches to landscape when a table has more columns.
	landscapeAbove = 6
)

// PDFRenderer draws standings in the printable layout used by the club.
type PDFRenderer struct {
	now func() time.Time
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now}
}

// Render writes every section on its own page. challenge is printed in the
// page header next to the section title.
func (r *PDFRenderer) Render(challenge string, sections []leaderboarddomain.Table) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 12)

	var current string
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		title := reportTitle
		if current != "" {
			title += " - " + current
		}
		if challenge != "" {
			title += " - " + challenge
		}
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	generated := r.now().Format("02/01/2006")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb} - Genere le %s", pdf.PageNo(), generated), "", 0, "C", false, 0, "")
	})

	for _, section := range sections {
		headers := tableHeaders(section)
		orientation := "P"
		if len(headers) > landscapeAbove {
			orientation = "L"
		}
		current = section.Title
		pdf.AddPageFormat(orientation, pdf.GetPageSizeStr("A4"))

		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(section.Title), "", 1, "L", false, 0, "")
		pdf.Ln(1)

		widths := columnWidths(pdf, headers)
		drawHeader(pdf, tr, headers, widths)

		pdf.SetFont("Arial", "", 9)
		zebra := false
		for _, row := range section.Rows {
			_, pageHeight := pdf.GetPageSize()
			_, _, _, bottom := pdf.GetMargins()
			if pdf.GetY() > pageHeight-bottom-rowHeight {
				pdf.AddPageFormat(orientation, pdf.GetPageSizeStr("A4"))
				drawHeader(pdf, tr, headers, widths)
				pdf.SetFont("Arial", "", 9)
				zebra = false
			}

			zebra = !zebra
			if zebra {
				pdf.SetFillColor(248, 248, 248)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			for i, cell := range rowCells(row) {
				align := "C"
				if headers[i] == nameHeader {
					align = "L"
				}
				pdf.CellFormat(widths[i], rowHeight, fitText(pdf, tr(cell), widths[i]), "1", 0, align, true, 0, "")
			}
			pdf.Ln(rowHeight)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func tableHeaders(t leaderboarddomain.Table) []string {
	headers := []string{rankHeader, nameHeader}
	for _, c := range t.Columns {
		headers = append(headers, c.Label)
	}
	return append(headers, "Total")
}

func rowCells(row leaderboarddomain.Row) []string {
	cells := []string{strconv.Itoa(row.Rank), row.Name}
	for _, p := range row.Points {
		cells = append(cells, strconv.Itoa(p))
	}
	return append(cells, strconv.Itoa(row.Total))
}

// columnWidths gives the rank and name columns fixed widths and shares the
// rest. The name column shrinks when the event columns would overflow.
func columnWidths(pdf *fpdf.Fpdf, headers []string) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	others := len(headers) - 2
	name := nameWidth
	other := 0.0
	if others > 0 {
		other = max(minColWidth, (usable-rankWidth-name)/float64(others))
		if rankWidth+name+other*float64(others) > usable {
			over := rankWidth + name + other*float64(others) - usable
			name = max(minNameWidth, name-over)
			other = max(fitColWidth, (usable-rankWidth-name)/float64(others))
		}
	}

	widths := make([]float64, len(headers))
	for i, h := range headers {
		switch h {
		case rankHeader:
			widths[i] = rankWidth
		case nameHeader:
			widths[i] = name
		default:
			widths[i] = other
		}
	}
	return widths
}

// drawHeader draws the grey header row. Two-line labels (event name and
// date) are written line by line inside one bordered cell.
func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		first, second, twoLines := strings.Cut(h, "\n")
		if !twoLines {
			pdf.CellFormat(widths[i], headerHeight, fitText(pdf, tr(h), widths[i]), "1", 0, "C", true, 0, "")
			continue
		}
		pdf.CellFormat(widths[i], headerHeight, "", "1", 0, "C", true, 0, "")
		x, y := pdf.GetX()-widths[i], pdf.GetY()
		pdf.SetXY(x, y+1)
		pdf.CellFormat(widths[i], 5, fitText(pdf, tr(first), widths[i]), "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+6)
		pdf.CellFormat(widths[i], 5, fitText(pdf, tr(second), widths[i]), "", 0, "C", false, 0, "")
		pdf.SetXY(x+widths[i], y)
	}
	pdf.Ln(headerHeight)
}

// fitText truncates s with an ellipsis so it fits in width.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	const ellipsis = "..."
	for s != "" && pdf.GetStringWidth(s+ellipsis) > limit {
		s = s[:len(s)-1]
	}
	if s == "" {
		return ""
	}
	return s + ellipsis
}
