package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		name string
		rank int
		want int
	}{
		{name: "winner", rank: 1, want: 35},
		{name: "second", rank: 2, want: 32},
		{name: "third", rank: 3, want: 29},
		{name: "fourth", rank: 4, want: 27},
		{name: "fifth", rank: 5, want: 26},
		{name: "sixth", rank: 6, want: 25},
		{name: "seventh", rank: 7, want: 24},
		{name: "fifteenth", rank: 15, want: 16},
		{name: "thirtieth", rank: 30, want: 1},
		{name: "thirty-first", rank: 31, want: 1},
		{name: "far back", rank: 999, want: 1},
		{name: "zero", rank: 0, want: 0},
		{name: "negative", rank: -4, want: 0},
		{name: "min int", rank: math.MinInt, want: 0},
		{name: "max int", rank: math.MaxInt, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Points(tt.rank))
		})
	}
}

func TestPoints_LinearBand(t *testing.T) {
	for r := 7; r <= 30; r++ {
		require.Equal(t, 31-r, Points(r), "rank %d", r)
	}
}

func TestPoints_Bounds(t *testing.T) {
	prev := MaxPoints
	for r := 1; r <= 60; r++ {
		got := Points(r)
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, MaxPoints)
		require.LessOrEqual(t, got, prev, "points must not increase with rank (rank %d)", r)
		prev = got
	}
}
