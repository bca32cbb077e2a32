// Package storetest provides a conformance suite that every store.Store
// backend runs from its own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/store"
)

// Factory opens a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Run exercises the store contract against the backend built by open.
func Run(t *testing.T, open Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"InsertAssignsIncreasingIDs", testInsertIDs},
		{"RevisionsOrderedAndScoped", testRevisionsScoped},
		{"RevisionNotFound", testRevisionNotFound},
		{"UpdateInPlace", testUpdate},
		{"UpdateMissing", testUpdateMissing},
		{"DeleteReferenced", testDeleteReferenced},
		{"DeleteMissing", testDeleteMissing},
		{"RollbackOnError", testRollback},
		{"CreatedSince", testCreatedSince},
		{"Documents", testDocuments},
		{"Checkpoint", testCheckpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

// insert adds a revision in its own transaction and returns it.
func insert(t *testing.T, s store.Store, r store.Revision) store.Revision {
	t.Helper()
	err := s.Update(context.Background(), func(tx store.Tx) error {
		return tx.Insert(context.Background(), &r)
	})
	require.NoError(t, err)
	require.NotZero(t, r.ID)
	return r
}

func testInsertIDs(t *testing.T, s store.Store) {
	a := insert(t, s, store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: base})
	b := insert(t, s, store.Revision{DocumentID: "doc", FullText: "b", CreatedAt: base, PreviousID: store.ID(a.ID), DiffText: "- a\n+ b\n"})
	assert.Greater(t, b.ID, a.ID)

	got, err := s.Revision(context.Background(), "doc", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.FullText)
	assert.Equal(t, "- a\n+ b\n", got.DiffText)
	require.NotNil(t, got.PreviousID)
	assert.Equal(t, a.ID, *got.PreviousID)
	assert.True(t, got.CreatedAt.Equal(base))
}

func testRevisionsScoped(t *testing.T, s store.Store) {
	ctx := context.Background()
	r1 := insert(t, s, store.Revision{DocumentID: "one", FullText: "1", CreatedAt: base})
	insert(t, s, store.Revision{DocumentID: "two", FullText: "x", CreatedAt: base})
	r2 := insert(t, s, store.Revision{DocumentID: "one", FullText: "2", CreatedAt: base, PreviousID: store.ID(r1.ID)})

	revs, err := s.Revisions(ctx, "one")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, r1.ID, revs[0].ID)
	assert.Equal(t, r2.ID, revs[1].ID)

	empty, err := s.Revisions(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)

	// reads inside a transaction see the same rows
	err = s.Update(ctx, func(tx store.Tx) error {
		in, err := tx.Revisions(ctx, "one")
		if err != nil {
			return err
		}
		assert.Len(t, in, 2)
		return nil
	})
	require.NoError(t, err)
}

func testRevisionNotFound(t *testing.T, s store.Store) {
	r := insert(t, s, store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: base})

	_, err := s.Revision(context.Background(), "doc", r.ID+100)
	assert.ErrorIs(t, err, store.ErrRevisionNotFound)

	_, err = s.Revision(context.Background(), "other", r.ID)
	assert.ErrorIs(t, err, store.ErrRevisionNotFound, "revision belongs to another document")
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	root := insert(t, s, store.Revision{DocumentID: "doc", FullText: "root", CreatedAt: base})
	mid := insert(t, s, store.Revision{DocumentID: "doc", FullText: "mid", CreatedAt: base, PreviousID: store.ID(root.ID)})
	tip := insert(t, s, store.Revision{DocumentID: "doc", FullText: "tip", CreatedAt: base, PreviousID: store.ID(mid.ID)})

	later := base.Add(time.Hour)
	tip.PreviousID = store.ID(root.ID)
	tip.DiffText = "- root\n+ tip\n"
	tip.FullText = "tip2"
	tip.CreatedAt = later
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
		return tx.Update(ctx, &tip)
	}))

	got, err := s.Revision(ctx, "doc", tip.ID)
	require.NoError(t, err)
	assert.Equal(t, "tip2", got.FullText)
	assert.Equal(t, root.ID, *got.PreviousID)
	assert.Equal(t, "- root\n+ tip\n", got.DiffText)
	assert.True(t, got.CreatedAt.Equal(later))
}

func testUpdateMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	err := s.Update(ctx, func(tx store.Tx) error {
		return tx.Update(ctx, &store.Revision{ID: 999, DocumentID: "doc", CreatedAt: base})
	})
	assert.ErrorIs(t, err, store.ErrRevisionNotFound)
}

func testDeleteReferenced(t *testing.T, s store.Store) {
	ctx := context.Background()
	root := insert(t, s, store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: base})
	mid := insert(t, s, store.Revision{DocumentID: "doc", FullText: "b", CreatedAt: base, PreviousID: store.ID(root.ID)})
	tip := insert(t, s, store.Revision{DocumentID: "doc", FullText: "c", CreatedAt: base, PreviousID: store.ID(mid.ID)})

	err := s.Update(ctx, func(tx store.Tx) error {
		return tx.Delete(ctx, mid.ID)
	})
	assert.ErrorIs(t, err, store.ErrReferenced)

	// reparent first, then the delete goes through
	err = s.Update(ctx, func(tx store.Tx) error {
		tip.PreviousID = store.ID(root.ID)
		if err := tx.Update(ctx, &tip); err != nil {
			return err
		}
		return tx.Delete(ctx, mid.ID)
	})
	require.NoError(t, err)

	revs, err := s.Revisions(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, root.ID, revs[0].ID)
	assert.Equal(t, tip.ID, revs[1].ID)
}

func testDeleteMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	err := s.Update(ctx, func(tx store.Tx) error {
		return tx.Delete(ctx, 12345)
	})
	assert.ErrorIs(t, err, store.ErrRevisionNotFound)
}

func testRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")
	root := insert(t, s, store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: base})

	err := s.Update(ctx, func(tx store.Tx) error {
		r := store.Revision{DocumentID: "doc", FullText: "b", CreatedAt: base, PreviousID: store.ID(root.ID)}
		if err := tx.Insert(ctx, &r); err != nil {
			return err
		}
		root.FullText = "changed"
		if err := tx.Update(ctx, &root); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	revs, err := s.Revisions(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "a", revs[0].FullText)
}

func testCreatedSince(t *testing.T, s store.Store) {
	ctx := context.Background()
	insert(t, s, store.Revision{DocumentID: "a", FullText: "1", CreatedAt: base.Add(-48 * time.Hour)})
	insert(t, s, store.Revision{DocumentID: "a", FullText: "2", CreatedAt: base})
	insert(t, s, store.Revision{DocumentID: "b", FullText: "3", CreatedAt: base.Add(time.Hour)})

	times, err := s.CreatedSince(ctx, base)
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.True(t, times[0].Equal(base))
	assert.True(t, times[1].Equal(base.Add(time.Hour)))
}

func testDocuments(t *testing.T, s store.Store) {
	ctx := context.Background()
	ids, err := s.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	insert(t, s, store.Revision{DocumentID: "zeta", FullText: "z", CreatedAt: base})
	insert(t, s, store.Revision{DocumentID: "alpha", FullText: "a", CreatedAt: base})
	insert(t, s, store.Revision{DocumentID: "alpha", FullText: "b", CreatedAt: base})

	ids, err = s.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, ids)
}

func testCheckpoint(t *testing.T, s store.Store) {
	insert(t, s, store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: base})
	assert.NoError(t, s.Checkpoint(context.Background()))
}
