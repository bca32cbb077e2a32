package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/store/storetest"
)

// setupStore creates a temporary SQLite store for testing.
// Returns the store and a cleanup function.
func setupStore(t *testing.T) (*store.SQLiteStore, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "noterev-store-test-*")
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(tmpDir, "revisions.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return s, cleanup
}

func TestSQLiteStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := store.Open(filepath.Join(t.TempDir(), "revisions.db"))
		require.NoError(t, err)
		require.NoError(t, s.Init())
		return s
	})
}

func TestSQLiteStore_InitIdempotent(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	assert.NoError(t, s.Init())
}

func TestSQLiteStore_ForeignKeysEnforced(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	var on int
	require.NoError(t, s.DB().QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	// a predecessor that does not exist violates the reference
	ctx := context.Background()
	err := s.Update(ctx, func(tx store.Tx) error {
		return tx.Insert(ctx, &store.Revision{
			DocumentID: "doc",
			FullText:   "x",
			CreatedAt:  time.Now(),
			PreviousID: store.ID(777),
		})
	})
	assert.Error(t, err)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "revisions.db")
	ctx := context.Background()

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Init())

	r := store.Revision{DocumentID: "doc", FullText: "kept\n", CreatedAt: time.Unix(1700000000, 123).UTC()}
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error { return tx.Insert(ctx, &r) }))
	require.NoError(t, s.Checkpoint(ctx))
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Revision(ctx, "doc", r.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", got.FullText)
	assert.True(t, got.CreatedAt.Equal(r.CreatedAt), "nanosecond precision survives")
	assert.True(t, got.IsRoot())
}

func TestRevision_ToJSON(t *testing.T) {
	r := store.Revision{
		ID:         3,
		DocumentID: "doc",
		FullText:   "body",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		PreviousID: store.ID(2),
		DiffText:   "+ body\n",
	}

	j := r.ToJSON(false)
	assert.Equal(t, "2026-01-02T03:04:05Z", j.CreatedAt)
	assert.Empty(t, j.FullText)
	assert.Equal(t, int64(2), *j.PreviousID)

	j = r.ToJSON(true)
	assert.Equal(t, "body", j.FullText)
	assert.Equal(t, "+ body\n", j.DiffText)
}
