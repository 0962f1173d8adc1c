package challengeservice

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for season text that is not "YYYY-YYYY"
	// with consecutive years.
	ErrInvalidRange = errors.New("season must be two consecutive years, e.g. 2024-2025")

	ErrEmptyName        = errors.New("name must not be empty")
	ErrEmptyCategory    = errors.New("category must not be empty")
	ErrInvalidRank      = errors.New("rank must be a positive integer")
	ErrPointsOutOfRange = errors.New("points must be between 0 and 35")
	ErrInvalidDate      = errors.New("unrecognized date")
)

// RankTakenError reports that a rank is already held in a category.
type RankTakenError struct {
	Rank     int
	Category string
	Holder   string
}

func (e *RankTakenError) Error() string {
	return fmt.Sprintf("rank %d in %s is already held by %s", e.Rank, e.Category, e.Holder)
}

// ErrRankTaken matches any *RankTakenError via errors.Is.
var ErrRankTaken = errors.New("rank already taken")

func (e *RankTakenError) Is(target error) bool { return target == ErrRankTaken }
