package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_Snapshot(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, map[string][]byte{
		"finance_flow_accounts": []byte(`[{"id":"acc1"}]`),
	}))

	dest := filepath.Join(t.TempDir(), "copy.db")
	require.NoError(t, store.Snapshot(ctx, dest))

	copied, err := NewSQLiteStorage(dest)
	require.NoError(t, err)
	defer func() { _ = copied.Close() }()

	value, ok, err := copied.Get(ctx, "finance_flow_accounts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"acc1"}]`, string(value))

	// later writes do not reach the snapshot
	require.NoError(t, store.Put(ctx, map[string][]byte{
		"finance_flow_accounts": []byte(`[]`),
	}))
	value, _, err = copied.Get(ctx, "finance_flow_accounts")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"acc1"}]`, string(value))
}

func TestSQLiteStorage_SnapshotRejectsPaths(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	existing := filepath.Join(t.TempDir(), "exists.db")
	require.NoError(t, os.WriteFile(existing, nil, 0600))

	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"relative", "copy.db"},
		{"quote", "/tmp/it's.db"},
		{"traversal", "/tmp/../etc/copy.db"},
		{"exists", existing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.Snapshot(ctx, tt.path))
		})
	}
}

func TestSQLiteStorage_AutoSnapshotPrunes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	var paths []string
	for i := 0; i < MaxSnapshots+2; i++ {
		path, err := store.AutoSnapshot(ctx, "import", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		paths = append(paths, path)
	}

	matches, err := filepath.Glob(store.Path() + ".import-*.bak")
	require.NoError(t, err)
	assert.Len(t, matches, MaxSnapshots)

	assert.NoFileExists(t, paths[0])
	assert.NoFileExists(t, paths[1])
	assert.FileExists(t, paths[len(paths)-1])
	assert.Contains(t, paths[len(paths)-1], ".import-20240315-120600.bak")
}

func TestSQLiteStorage_AutoSnapshotInMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.AutoSnapshot(context.Background(), "import", time.Now())
	assert.Error(t, err)
}
