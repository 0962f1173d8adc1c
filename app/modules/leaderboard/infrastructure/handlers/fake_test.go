package leaderboardhandlers

import (
	"context"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	leaderboardservice "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
)

type FakeService struct {
	StandingsFunc         func(ctx context.Context, q leaderboardservice.Query) (*leaderboarddomain.Table, error)
	FullCircuitReportFunc func(ctx context.Context, challengeID int64, circuit string) (*leaderboardservice.Report, error)
	StandingsPDFFunc      func(ctx context.Context, q leaderboardservice.Query) (*leaderboardservice.File, error)
	StandingsXLSXFunc     func(ctx context.Context, q leaderboardservice.Query) (*leaderboardservice.File, error)
	ReportPDFFunc         func(ctx context.Context, challengeID int64, circuit string) (*leaderboardservice.File, error)
	ProgressionChartFunc  func(ctx context.Context, fullName string, challengeID int64, circuit string) (*leaderboardservice.File, error)
	SummaryFunc           func(ctx context.Context) (*challengedb.Summary, error)

	Calls []string
}

func (f *FakeService) Standings(ctx context.Context, q leaderboardservice.Query) (*leaderboarddomain.Table, error) {
	f.Calls = append(f.Calls, "Standings")
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx, q)
	}
	return &leaderboarddomain.Table{}, nil
}

func (f *FakeService) FullCircuitReport(ctx context.Context, challengeID int64, circuit string) (*leaderboardservice.Report, error) {
	f.Calls = append(f.Calls, "FullCircuitReport")
	if f.FullCircuitReportFunc != nil {
		return f.FullCircuitReportFunc(ctx, challengeID, circuit)
	}
	return &leaderboardservice.Report{}, nil
}

func (f *FakeService) StandingsPDF(ctx context.Context, q leaderboardservice.Query) (*leaderboardservice.File, error) {
	f.Calls = append(f.Calls, "StandingsPDF")
	if f.StandingsPDFFunc != nil {
		return f.StandingsPDFFunc(ctx, q)
	}
	return &leaderboardservice.File{Name: "standings.pdf", ContentType: "application/pdf"}, nil
}

func (f *FakeService) StandingsXLSX(ctx context.Context, q leaderboardservice.Query) (*leaderboardservice.File, error) {
	f.Calls = append(f.Calls, "StandingsXLSX")
	if f.StandingsXLSXFunc != nil {
		return f.StandingsXLSXFunc(ctx, q)
	}
	return &leaderboardservice.File{Name: "standings.xlsx"}, nil
}

func (f *FakeService) ReportPDF(ctx context.Context, challengeID int64, circuit string) (*leaderboardservice.File, error) {
	f.Calls = append(f.Calls, "ReportPDF")
	if f.ReportPDFFunc != nil {
		return f.ReportPDFFunc(ctx, challengeID, circuit)
	}
	return &leaderboardservice.File{Name: "report.pdf", ContentType: "application/pdf"}, nil
}

func (f *FakeService) ProgressionChart(ctx context.Context, fullName string, challengeID int64, circuit string) (*leaderboardservice.File, error) {
	f.Calls = append(f.Calls, "ProgressionChart")
	if f.ProgressionChartFunc != nil {
		return f.ProgressionChartFunc(ctx, fullName, challengeID, circuit)
	}
	return &leaderboardservice.File{Name: "chart.png", ContentType: "image/png"}, nil
}

func (f *FakeService) Summary(ctx context.Context) (*challengedb.Summary, error) {
	f.Calls = append(f.Calls, "Summary")
	if f.SummaryFunc != nil {
		return f.SummaryFunc(ctx)
	}
	return &challengedb.Summary{}, nil
}

func (f *FakeService) InvalidateCache(context.Context) (int, error) {
	f.Calls = append(f.Calls, "InvalidateCache")
	return 0, nil
}
