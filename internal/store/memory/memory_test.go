package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/store/memory"
	"github.com/uttaparsa/notes-api/internal/store/storetest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := memory.New()
		require.NoError(t, err)
		return s
	})
}

func TestMemoryStore_MissingPredecessor(t *testing.T) {
	s, err := memory.New()
	require.NoError(t, err)
	ctx := context.Background()

	err = s.Update(ctx, func(tx store.Tx) error {
		return tx.Insert(ctx, &store.Revision{
			DocumentID: "doc",
			FullText:   "x",
			CreatedAt:  time.Now(),
			PreviousID: store.ID(42),
		})
	})
	assert.ErrorIs(t, err, store.ErrRevisionNotFound)
}

func TestMemoryStore_IDsNotReusedAfterRollback(t *testing.T) {
	s, err := memory.New()
	require.NoError(t, err)
	ctx := context.Background()

	var first int64
	_ = s.Update(ctx, func(tx store.Tx) error {
		r := store.Revision{DocumentID: "doc", FullText: "a", CreatedAt: time.Now()}
		if err := tx.Insert(ctx, &r); err != nil {
			return err
		}
		first = r.ID
		return assert.AnError
	})

	r := store.Revision{DocumentID: "doc", FullText: "b", CreatedAt: time.Now()}
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error { return tx.Insert(ctx, &r) }))
	assert.Greater(t, r.ID, first)
}
