package importdomain

import "github.com/Black-And-White-Club/raid-challenge/app/modules/scoring"

// PointsConflict records a row whose declared points disagree with the points
// its rank earns.
type PointsConflict struct {
	RowID          RowID `json:"row_id"`
	Rank           int   `json:"rank"`
	FilePoints     int   `json:"file_points"`
	ExpectedPoints int   `json:"expected_points"`
}

// DetectConflicts compares file points against scored ranks. The category
// rank is used when known, the scratch rank otherwise. Rows with an
// unparseable rank or points cell are skipped.
func DetectConflicts(t Table, rankColumn, pointsColumn string, categoryRanks map[RowID]int) []PointsConflict {
	if pointsColumn == "" {
		return nil
	}

	var conflicts []PointsConflict
	for _, row := range t.Rows {
		rank, ok := ParseInt(row.Get(rankColumn))
		if !ok {
			continue
		}
		filePoints, ok := ParseInt(row.Get(pointsColumn))
		if !ok {
			continue
		}

		scoringRank := rank
		if catRank, found := categoryRanks[row.ID]; found {
			scoringRank = catRank
		}
		expected := scoring.Points(scoringRank)
		if expected != filePoints {
			conflicts = append(conflicts, PointsConflict{
				RowID:          row.ID,
				Rank:           rank,
				FilePoints:     filePoints,
				ExpectedPoints: expected,
			})
		}
	}
	return conflicts
}
