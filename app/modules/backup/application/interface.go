package backupservice

import (
	"context"
	"time"

	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Service manages the daily database snapshots.
type Service interface {
	// CreateSnapshot writes today's snapshot. An existing one is returned as is.
	CreateSnapshot(ctx context.Context) (*Snapshot, error)
	// RefreshSnapshot rewrites today's snapshot even when it exists.
	RefreshSnapshot(ctx context.Context) (*Snapshot, error)
	Cleanup(ctx context.Context, keepDays int) (int, error)
	Status(ctx context.Context) ([]SnapshotInfo, error)
	NeedsSnapshot(ctx context.Context) (bool, error)
}

// Dumper reads every table in one pass.
type Dumper interface {
	Dump(ctx context.Context, db bun.IDB) (*challengedb.Dump, error)
}

// Uploader copies a snapshot off-site.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configure the snapshot directory and retention.
type Options struct {
	Dir           string
	RetentionDays int
	StatusLimit   int
	// Prefix is prepended to uploaded object keys.
	Prefix string
}

// Snapshot is the outcome of a snapshot request.
type Snapshot struct {
	Name     string `json:"name"`
	Path     string `json:"-"`
	Bytes    int64  `json:"bytes"`
	Created  bool   `json:"created"`
	Uploaded bool   `json:"uploaded"`
	Pruned   int    `json:"pruned"`
}

// SnapshotInfo is one line of the snapshot status listing.
type SnapshotInfo struct {
	Filename string `json:"filename"`
	Date     string `json:"date"`
	Size     string `json:"size"`
	Bytes    int64  `json:"bytes"`
}

// Document is the JSON body of a snapshot file.
type Document struct {
	CreatedAt time.Time `json:"created_at"`
	challengedb.Dump
}
