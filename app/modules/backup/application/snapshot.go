package backupservice

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/app/results"
)

const (
	filePrefix = "challenge_"
	fileSuffix = ".json.gz"
)

// FileName is the snapshot name for the day of t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(time.DateOnly) + fileSuffix
}

func isSnapshot(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix)
}

func (s *BackupService) todayPath() (string, string) {
	name := FileName(s.clock.Now())
	return name, filepath.Join(s.opts.Dir, name)
}

// NeedsSnapshot reports whether today's snapshot is missing.
func (s *BackupService) NeedsSnapshot(ctx context.Context) (bool, error) {
	_, p := s.todayPath()
	_, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return false, nil
}

func (s *BackupService) CreateSnapshot(ctx context.Context) (*Snapshot, error) {
	return run(s, ctx, "CreateSnapshot", "", func(ctx context.Context) (results.OperationResult[*Snapshot, error], error) {
		return s.snapshot(ctx, false)
	})
}

func (s *BackupService) RefreshSnapshot(ctx context.Context) (*Snapshot, error) {
	return run(s, ctx, "RefreshSnapshot", "", func(ctx context.Context) (results.OperationResult[*Snapshot, error], error) {
		return s.snapshot(ctx, true)
	})
}

func (s *BackupService) snapshot(ctx context.Context, overwrite bool) (results.OperationResult[*Snapshot, error], error) {
	name, p := s.todayPath()

	if !overwrite {
		if info, err := os.Stat(p); err == nil {
			return success(&Snapshot{Name: name, Path: p, Bytes: info.Size()})
		}
	}

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return fault[*Snapshot]("failed to create backup directory: %w", err)
	}

	dump, err := s.dumper.Dump(ctx, nil)
	if err != nil {
		return fault[*Snapshot]("failed to dump database: %w", err)
	}
	body, err := encode(Document{CreatedAt: s.clock.Now().UTC(), Dump: *dump})
	if err != nil {
		return fault[*Snapshot]("failed to encode snapshot: %w", err)
	}
	if err := writeFile(p, body); err != nil {
		return fault[*Snapshot]("failed to write snapshot: %w", err)
	}
	s.metrics.RecordSnapshotCreated(ctx, int64(len(body)))

	snap := &Snapshot{Name: name, Path: p, Bytes: int64(len(body)), Created: true}

	if s.uploader != nil {
		if err := s.uploader.Upload(ctx, s.objectKey(name), body); err != nil {
			s.logger.WarnContext(ctx, "Snapshot upload failed, keeping local copy only",
				attr.ExtractCorrelationID(ctx),
				attr.String("file", name),
				attr.Error(err),
			)
		} else {
			snap.Uploaded = true
		}
	}

	pruned, err := s.prune(ctx, s.opts.RetentionDays)
	if err != nil {
		s.logger.WarnContext(ctx, "Snapshot retention failed", attr.Error(err))
	}
	snap.Pruned = pruned

	return success(snap)
}

func encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a snapshot file body.
func Decode(body []byte) (*Document, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var doc Document
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// writeFile replaces p through a temporary file in the same directory.
func writeFile(p string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(p), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Cleanup removes snapshots last modified more than keepDays ago.
func (s *BackupService) Cleanup(ctx context.Context, keepDays int) (int, error) {
	return run(s, ctx, "Cleanup", fmt.Sprint(keepDays), func(ctx context.Context) (results.OperationResult[int, error], error) {
		if keepDays < 0 {
			return failure[int](ErrInvalidRetention)
		}
		n, err := s.prune(ctx, keepDays)
		if err != nil {
			return fault[int]("failed to prune snapshots: %w", err)
		}
		return success(n)
	})
}

func (s *BackupService) prune(ctx context.Context, keepDays int) (int, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := s.clock.Now().Add(-time.Duration(keepDays) * 24 * time.Hour)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isSnapshot(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.opts.Dir, e.Name())); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove snapshot", attr.String("file", e.Name()), attr.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.metrics.RecordSnapshotsPruned(ctx, removed)
		s.logger.InfoContext(ctx, "Old snapshots removed", attr.Int("removed", removed), attr.Int("keep_days", keepDays))
	}
	return removed, nil
}

// Status lists the most recent snapshots, newest name first.
func (s *BackupService) Status(ctx context.Context) ([]SnapshotInfo, error) {
	return run(s, ctx, "Status", "", func(ctx context.Context) (results.OperationResult[[]SnapshotInfo, error], error) {
		entries, err := os.ReadDir(s.opts.Dir)
		if errors.Is(err, fs.ErrNotExist) {
			return success([]SnapshotInfo{})
		}
		if err != nil {
			return fault[[]SnapshotInfo]("failed to read backup directory: %w", err)
		}

		list := []SnapshotInfo{}
		for _, e := range entries {
			if e.IsDir() || !isSnapshot(e.Name()) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			list = append(list, SnapshotInfo{
				Filename: e.Name(),
				Date:     info.ModTime().Format("02/01/2006 15:04"),
				Size:     fmt.Sprintf("%d Ko", info.Size()/1024),
				Bytes:    info.Size(),
			})
		}
		slices.SortFunc(list, func(a, b SnapshotInfo) int { return strings.Compare(b.Filename, a.Filename) })
		if len(list) > s.opts.StatusLimit {
			list = list[:s.opts.StatusLimit]
		}
		return success(list)
	})
}
