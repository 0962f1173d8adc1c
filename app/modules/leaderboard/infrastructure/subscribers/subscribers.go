package leaderboardsubscribers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Invalidator drops cached standings.
type Invalidator interface {
	InvalidateCache(ctx context.Context) (int, error)
}

// LeaderboardSubscribers keeps the standings cache in step with stored results.
type LeaderboardSubscribers struct {
	eventBus eventbus.EventBus
	service  Invalidator
	logger   *slog.Logger
}

// NewLeaderboardSubscribers creates a new LeaderboardSubscribers.
func NewLeaderboardSubscribers(eventBus eventbus.EventBus, service Invalidator, logger *slog.Logger) *LeaderboardSubscribers {
	return &LeaderboardSubscribers{
		eventBus: eventBus,
		service:  service,
		logger:   logger,
	}
}

// Subscribe registers the cache invalidation handlers.
func (s *LeaderboardSubscribers) Subscribe(ctx context.Context) error {
	if err := s.eventBus.Subscribe(ctx, eventbus.ResultsImportedTopic, s.handleResultsImported); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventbus.ResultsImportedTopic, err)
	}
	if err := s.eventBus.Subscribe(ctx, eventbus.ResultsChangedTopic, s.handleResultsChanged); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventbus.ResultsChangedTopic, err)
	}
	return nil
}

func (s *LeaderboardSubscribers) handleResultsImported(ctx context.Context, msg *message.Message) error {
	payload, err := eventbus.Decode[eventbus.ResultsImportedPayload](msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Dropping malformed results imported message", attr.Error(err))
		return nil
	}
	s.invalidate(ctx, "import", payload.EventID)
	return nil
}

func (s *LeaderboardSubscribers) handleResultsChanged(ctx context.Context, msg *message.Message) error {
	payload, err := eventbus.Decode[eventbus.ResultsChangedPayload](msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Dropping malformed results changed message", attr.Error(err))
		return nil
	}
	s.invalidate(ctx, payload.Reason, payload.EventID)
	return nil
}

// invalidate logs failures and never nacks the message.
func (s *LeaderboardSubscribers) invalidate(ctx context.Context, reason string, eventID int64) {
	if _, err := s.service.InvalidateCache(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to invalidate standings cache",
			attr.String("reason", reason),
			attr.Int64("event_id", eventID),
			attr.Error(err),
		)
	}
}
