package importhandlers

import (
	"context"

	importservice "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/application"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/google/uuid"
)

type FakeService struct {
	BuildConfigFunc func(spec importservice.ConfigSpec) (importdomain.Config, error)
	AnalyzeFunc     func(ctx context.Context, req importservice.AnalyzeRequest) (*importservice.AnalyzeResult, error)
	GetPendingFunc  func(ctx context.Context, batchID uuid.UUID) (*importdomain.PendingBatch, error)
	DiscardFunc     func(ctx context.Context, batchID uuid.UUID) error
	CommitFunc      func(ctx context.Context, batchID uuid.UUID, decision importdomain.ImportDecision) (*importservice.CommitSummary, error)
}

func (f *FakeService) BuildConfig(spec importservice.ConfigSpec) (importdomain.Config, error) {
	if f.BuildConfigFunc != nil {
		return f.BuildConfigFunc(spec)
	}
	return importdomain.Config{RankColumn: spec.RankColumn}, nil
}

func (f *FakeService) Analyze(ctx context.Context, req importservice.AnalyzeRequest) (*importservice.AnalyzeResult, error) {
	if f.AnalyzeFunc != nil {
		return f.AnalyzeFunc(ctx, req)
	}
	return &importservice.AnalyzeResult{BatchID: uuid.New()}, nil
}

func (f *FakeService) GetPending(ctx context.Context, batchID uuid.UUID) (*importdomain.PendingBatch, error) {
	if f.GetPendingFunc != nil {
		return f.GetPendingFunc(ctx, batchID)
	}
	return &importdomain.PendingBatch{ID: batchID}, nil
}

func (f *FakeService) Discard(ctx context.Context, batchID uuid.UUID) error {
	if f.DiscardFunc != nil {
		return f.DiscardFunc(ctx, batchID)
	}
	return nil
}

func (f *FakeService) Commit(ctx context.Context, batchID uuid.UUID, decision importdomain.ImportDecision) (*importservice.CommitSummary, error) {
	if f.CommitFunc != nil {
		return f.CommitFunc(ctx, batchID, decision)
	}
	return &importservice.CommitSummary{}, nil
}

var _ importservice.Service = (*FakeService)(nil)
