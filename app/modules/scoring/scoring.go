// Package scoring holds the challenge points scale.
package scoring

// MaxPoints is the score awarded to a category winner.
const MaxPoints = 35

// podium holds the points for ranks 1 through 6.
var podium = [...]int{35, 32, 29, 27, 26, 25}

// Points returns the points for a category-relative rank.
// Ranks 7..30 lose one point per place (24 down to 1), anything past 30 earns 1
// and non-positive ranks earn nothing.
func Points(rank int) int {
	switch {
	case rank < 1:
		return 0
	case rank <= len(podium):
		return podium[rank-1]
	case rank <= 30:
		return 31 - rank
	default:
		return 1
	}
}
