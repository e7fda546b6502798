package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Veraticus/ledger-flow/internal/common"
)

// RecordInfo describes one stored record without its payload.
type RecordInfo struct {
	UpdatedAt time.Time
	Key       string
	Size      int
	Revision  int
}

// Get returns the record stored under key.
func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, common.StorageError("read "+key, err)
	}

	return []byte(value), true, nil
}

// Put writes all records in a single transaction.
func (s *SQLiteStorage) Put(ctx context.Context, records map[string][]byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	// Deterministic write order keeps lock acquisition predictable.
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	err := common.WithRetry(ctx, func() error {
		return s.putOnce(ctx, keys, records)
	}, s.retry)
	if err != nil {
		return common.StorageError("write records", err)
	}

	slog.Debug("wrote records", "keys", keys)
	return nil
}

func (s *SQLiteStorage) putOnce(ctx context.Context, keys []string, records map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (key, value, updated_at, revision)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = records.revision + 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, key, string(records[key]), now); err != nil {
			return fmt.Errorf("failed to write record %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Revisions lists every stored record with its write counter.
func (s *SQLiteStorage) Revisions(ctx context.Context) ([]RecordInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, LENGTH(value), revision, updated_at
		FROM records
		ORDER BY key`)
	if err != nil {
		return nil, common.StorageError("list records", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []RecordInfo
	for rows.Next() {
		var info RecordInfo
		if err := rows.Scan(&info.Key, &info.Size, &info.Revision, &info.UpdatedAt); err != nil {
			return nil, common.StorageError("scan record", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageError("iterate records", err)
	}

	return infos, nil
}
