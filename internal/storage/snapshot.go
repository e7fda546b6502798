package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/ledger-flow/internal/common"
)

// MaxSnapshots is how many automatic snapshots are kept per database.
const MaxSnapshots = 5

// Snapshot writes a consistent copy of the database to destPath.
func (s *SQLiteStorage) Snapshot(ctx context.Context, destPath string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(destPath, "destPath"); err != nil {
		return err
	}
	// VACUUM INTO takes a literal; reject anything that could escape it.
	if strings.ContainsAny(destPath, `'";`) || !filepath.IsAbs(destPath) || strings.Contains(destPath, "..") {
		return fmt.Errorf("invalid snapshot path %q", destPath)
	}
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("snapshot %s already exists", destPath)
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return common.StorageError("checkpoint wal", err)
	}
	// #nosec G201 - destPath is validated above
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		return common.StorageError("snapshot", err)
	}

	slog.Debug("Wrote database snapshot", "path", destPath)
	return nil
}

// AutoSnapshot snapshots the database next to its file before a destructive
// operation, then prunes all but the newest MaxSnapshots snapshots for reason.
// It returns the snapshot path.
func (s *SQLiteStorage) AutoSnapshot(ctx context.Context, reason string, now time.Time) (string, error) {
	if s.dbPath == ":memory:" {
		return "", fmt.Errorf("in-memory databases cannot be snapshotted")
	}
	abs, err := filepath.Abs(s.dbPath)
	if err != nil {
		return "", err
	}

	prefix := fmt.Sprintf("%s.%s-", abs, reason)
	dest := prefix + now.UTC().Format("20060102-150405") + ".bak"
	if err := s.Snapshot(ctx, dest); err != nil {
		return "", err
	}

	if err := pruneSnapshots(prefix); err != nil {
		slog.Warn("Failed to prune old snapshots", "error", err)
	}
	return dest, nil
}

func pruneSnapshots(prefix string) error {
	matches, err := filepath.Glob(prefix + "*.bak")
	if err != nil {
		return err
	}
	if len(matches) <= MaxSnapshots {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, old := range matches[MaxSnapshots:] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}
