package backupsubscribers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	backupservice "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/application"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotter struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSnapshotter) RefreshSnapshot(context.Context) (*backupservice.Snapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &backupservice.Snapshot{Name: "challenge_2024-10-05.json.gz", Created: true}, nil
}

func TestSubscribe_RefreshesAfterImport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewEventBus(logger)
	defer bus.Close()

	snap := &fakeSnapshotter{}
	require.NoError(t, NewBackupSubscribers(bus, snap, logger).Subscribe(ctx))
	require.NoError(t, bus.Publish(ctx, eventbus.ResultsImportedTopic, eventbus.ResultsImportedPayload{EventID: 5, ResultsAdded: 3}))

	assert.Eventually(t, func() bool { return snap.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHandleResultsImported_NeverNacks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := &fakeSnapshotter{err: errors.New("disk full")}
	s := NewBackupSubscribers(nil, snap, logger)

	assert.NoError(t, s.handleResultsImported(context.Background(), message.NewMessage(watermill.NewUUID(), []byte("nope"))))
	assert.Equal(t, int32(0), snap.calls.Load())

	assert.NoError(t, s.handleResultsImported(context.Background(), message.NewMessage(watermill.NewUUID(), []byte(`{"event_id":5}`))))
	assert.Equal(t, int32(1), snap.calls.Load())
}
