package revision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttaparsa/notes-api/internal/store"
)

func rev(id int64, prev int64, text string) store.Revision {
	r := store.Revision{ID: id, DocumentID: "doc", FullText: text}
	if prev != 0 {
		r.PreviousID = store.ID(prev)
	}
	return r
}

func TestNewChain_Empty(t *testing.T) {
	c, err := NewChain(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Root())
	assert.Nil(t, c.Latest())
	assert.Nil(t, c.SecondLatest())
}

func TestNewChain_OrdersByLinks(t *testing.T) {
	// IDs out of order on purpose; links decide the order
	rows := []store.Revision{rev(9, 4, "c"), rev(2, 0, "a"), rev(4, 2, "b")}

	c, err := NewChain(rows)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, int64(2), c.Root().ID)
	assert.Equal(t, int64(9), c.Latest().ID)
	assert.Equal(t, int64(4), c.SecondLatest().ID)
	assert.Nil(t, c.At(3))

	texts := []string{}
	for _, r := range c.Revisions() {
		texts = append(texts, r.FullText)
	}
	assert.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestNewChain_SingleRoot(t *testing.T) {
	c, err := NewChain([]store.Revision{rev(1, 0, "a")})
	require.NoError(t, err)
	assert.Equal(t, c.Root().ID, c.Latest().ID)
	assert.Nil(t, c.SecondLatest())
}

func TestNewChain_Broken(t *testing.T) {
	tests := []struct {
		name string
		rows []store.Revision
	}{
		{"two roots", []store.Revision{rev(1, 0, "a"), rev(2, 0, "b")}},
		{"no root", []store.Revision{rev(1, 2, "a"), rev(2, 1, "b")}},
		{"branch", []store.Revision{rev(1, 0, "a"), rev(2, 1, "b"), rev(3, 1, "c")}},
		{"dangling", []store.Revision{rev(1, 0, "a"), rev(2, 7, "b")}},
		{"cycle beside root", []store.Revision{rev(1, 0, "a"), rev(2, 3, "b"), rev(3, 2, "c")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChain(tt.rows)
			assert.ErrorIs(t, err, ErrBrokenChain)
		})
	}
}

func TestChain_AccessorsReturnCopies(t *testing.T) {
	c, err := NewChain([]store.Revision{rev(1, 0, "a")})
	require.NoError(t, err)

	c.Latest().FullText = "mutated"
	c.Revisions()[0].FullText = "mutated"
	assert.Equal(t, "a", c.Root().FullText)
}
