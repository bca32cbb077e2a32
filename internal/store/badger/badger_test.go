package badger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/store/badger"
	"github.com/uttaparsa/notes-api/internal/store/storetest"
)

func TestBadgerStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badger.Open(badger.Config{InMemory: true})
		require.NoError(t, err)
		return s
	})
}

func TestBadgerStore_CheckpointInMemory(t *testing.T) {
	s, err := badger.Open(badger.Config{InMemory: true})
	require.NoError(t, err)
	ctx := context.Background()

	r := store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: time.Now()}
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error { return tx.Insert(ctx, &r) }))
	assert.NoError(t, s.Checkpoint(ctx))
	assert.NoError(t, s.Checkpoint(ctx))
	assert.NoError(t, s.Close())
}

func TestBadgerStore_RequiresPath(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.Error(t, err)
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)

	root := store.Revision{DocumentID: "doc", FullText: "a\n", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error { return tx.Insert(ctx, &root) }))
	require.NoError(t, s.Checkpoint(ctx))
	require.NoError(t, s.Close())

	s, err = badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	revs, err := s.Revisions(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "a\n", revs[0].FullText)

	next := store.Revision{DocumentID: "doc", FullText: "b\n", CreatedAt: time.Now().UTC(), PreviousID: store.ID(root.ID)}
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error { return tx.Insert(ctx, &next) }))
	assert.Greater(t, next.ID, root.ID, "ids keep increasing after reopen")
}

func TestBadgerStore_DocumentPrefixIsolation(t *testing.T) {
	s, err := badger.Open(badger.Config{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	for _, doc := range []string{"a", "ab", "a"} {
		r := store.Revision{DocumentID: doc, FullText: doc, CreatedAt: time.Now()}
		require.NoError(t, s.Update(ctx, func(tx store.Tx) error { return tx.Insert(ctx, &r) }))
	}

	revs, err := s.Revisions(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}
