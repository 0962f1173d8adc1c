package leaderboardreports

import (
	"bytes"

	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colours the progression chart.
type ChartPalette struct {
	Background drawing.Color
	Line       drawing.Color
	Dot        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is the club colour scheme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Line:       drawing.ColorFromHex("1f6f43"),
	Dot:        drawing.ColorFromHex("d4a017"),
	Text:       drawing.ColorFromHex("333333"),
}

// RenderProgression draws a participant's cumulative points, one point per
// event, as a PNG line chart.
func RenderProgression(name string, columns []leaderboarddomain.Column, cumulative []int, palette ChartPalette) ([]byte, error) {
	if len(columns) == 0 {
		return renderNoData(palette)
	}

	xValues := make([]float64, len(columns))
	yValues := make([]float64, len(columns))
	ticks := make([]chart.Tick, len(columns))
	for i, c := range columns {
		xValues[i] = float64(i)
		if i < len(cumulative) {
			yValues[i] = float64(cumulative[i])
		}
		ticks[i] = chart.Tick{Value: float64(i), Label: c.Date.Format("02/01")}
	}
	// go-chart needs two points to draw a line.
	if len(columns) == 1 {
		xValues = append(xValues, 1)
		yValues = append(yValues, yValues[0])
		ticks = append(ticks, chart.Tick{Value: 1, Label: ""})
	}

	series := chart.ContinuousSeries{
		Name:    name,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.Line,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.Dot,
		},
	}

	graph := chart.Chart{
		Title:  name,
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Raid",
			Ticks: ticks,
			Style: chart.Style{FontColor: palette.Text},
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: palette.Text},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderNoData draws an empty, flat chart; go-chart refuses to render
// without a visible series.
func renderNoData(palette ChartPalette) ([]byte, error) {
	graph := chart.Chart{
		Title:  "Aucun raid pour ce circuit",
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: palette.Line},
		}},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
