package leaderboardservice

import (
	"context"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
)

// Service computes standings and renders them for download.
type Service interface {
	Standings(ctx context.Context, q Query) (*leaderboarddomain.Table, error)
	FullCircuitReport(ctx context.Context, challengeID int64, circuit string) (*Report, error)

	StandingsPDF(ctx context.Context, q Query) (*File, error)
	StandingsXLSX(ctx context.Context, q Query) (*File, error)
	ReportPDF(ctx context.Context, challengeID int64, circuit string) (*File, error)
	ProgressionChart(ctx context.Context, fullName string, challengeID int64, circuit string) (*File, error)

	Summary(ctx context.Context) (*challengedb.Summary, error)
	InvalidateCache(ctx context.Context) (int, error)
}

// Cache holds computed standings tables.
type Cache interface {
	Get(ctx context.Context, key string) (*leaderboarddomain.Table, bool, error)
	Set(ctx context.Context, key string, t *leaderboarddomain.Table) error
	Invalidate(ctx context.Context) (int, error)
}

// Query selects one standings table. An empty Category means every category.
type Query struct {
	ChallengeID int64
	Circuit     string
	Category    string
}

// Report is the full circuit document: one section per category.
type Report struct {
	Challenge string                    `json:"challenge"`
	Circuit   string                    `json:"circuit"`
	Sections  []leaderboarddomain.Table `json:"sections"`
}

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}
