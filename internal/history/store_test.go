package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  string
		wantErr bool
	}{
		{
			name:   "creates database successfully",
			dbPath: filepath.Join(t.TempDir(), "history.db"),
		},
		{
			name:   "handles in-memory database",
			dbPath: MemoryPath,
		},
		{
			name:   "creates parent directories if needed",
			dbPath: filepath.Join(t.TempDir(), "nested", "dir", "history.db"),
		},
		{
			name:    "rejects empty path",
			dbPath:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.dbPath)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, store)
			defer store.Close()

			entries, err := store.Recent(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	opened := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	id, err := store.Record(ctx, Entry{
		Root:      "/tmp/T",
		Candidate: "sub/y.txt",
		Program:   "less",
		ExitCode:  1,
		Removed:   true,
		OpenedAt:  opened,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "record ID should be a UUID")

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "/tmp/T", got.Root)
	assert.Equal(t, "sub/y.txt", got.Candidate)
	assert.Equal(t, "less", got.Program)
	assert.Equal(t, 1, got.ExitCode)
	assert.True(t, got.Removed)
	assert.True(t, opened.Equal(got.OpenedAt), "opened_at = %v, want %v", got.OpenedAt, opened)
	assert.Equal(t, "/tmp/T/sub/y.txt", got.Path())
}

func TestRecordKeepsExplicitID(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Record(context.Background(), Entry{ID: "run-1", Root: "/", Candidate: "etc/hosts", Program: "cat"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", id)

	_, err = store.Record(context.Background(), Entry{ID: "run-1", Root: "/", Candidate: "etc/hosts", Program: "cat"})
	assert.Error(t, err, "duplicate IDs must be rejected")
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, Entry{Root: "/r", Candidate: fmt.Sprintf("f%d", i), Program: "vi"})
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "limited", limit: 2, want: []string{"f4", "f3"}},
		{name: "larger than table", limit: 50, want: []string{"f4", "f3", "f2", "f1", "f0"}},
		{name: "zero means all", limit: 0, want: []string{"f4", "f3", "f2", "f1", "f0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.Recent(ctx, tt.limit)
			require.NoError(t, err)

			var got []string
			for _, e := range entries {
				got = append(got, e.Candidate)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, Entry{Root: "/r", Candidate: "f", Program: "vi"})
		require.NoError(t, err)
	}

	deleted, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	entries, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordCreatesLockFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Record(context.Background(), Entry{Root: "/r", Candidate: "f", Program: "vi"})
	require.NoError(t, err)

	_, err = os.Stat(dbPath + ".lock")
	assert.NoError(t, err)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), Entry{Root: "/r", Candidate: "kept", Program: "vi"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Candidate)
}
