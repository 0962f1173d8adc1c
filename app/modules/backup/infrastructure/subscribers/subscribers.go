package backupsubscribers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	backupservice "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/application"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Snapshotter rewrites today's snapshot.
type Snapshotter interface {
	RefreshSnapshot(ctx context.Context) (*backupservice.Snapshot, error)
}

// BackupSubscribers refreshes today's snapshot after every committed import.
type BackupSubscribers struct {
	eventBus eventbus.EventBus
	service  Snapshotter
	logger   *slog.Logger
}

// NewBackupSubscribers creates a new BackupSubscribers.
func NewBackupSubscribers(eventBus eventbus.EventBus, service Snapshotter, logger *slog.Logger) *BackupSubscribers {
	return &BackupSubscribers{eventBus: eventBus, service: service, logger: logger}
}

// Subscribe registers the post-import handler.
func (s *BackupSubscribers) Subscribe(ctx context.Context) error {
	if err := s.eventBus.Subscribe(ctx, eventbus.ResultsImportedTopic, s.handleResultsImported); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventbus.ResultsImportedTopic, err)
	}
	return nil
}

func (s *BackupSubscribers) handleResultsImported(ctx context.Context, msg *message.Message) error {
	payload, err := eventbus.Decode[eventbus.ResultsImportedPayload](msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Dropping malformed results imported message", attr.Error(err))
		return nil
	}
	snap, err := s.service.RefreshSnapshot(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Post-import snapshot failed",
			attr.Int64("event_id", payload.EventID),
			attr.Error(err),
		)
		return nil
	}
	s.logger.InfoContext(ctx, "Post-import snapshot written",
		attr.Int64("event_id", payload.EventID),
		attr.String("file", snap.Name),
	)
	return nil
}
