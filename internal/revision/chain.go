package revision

import (
	"errors"
	"fmt"

	"github.com/uttaparsa/notes-api/internal/store"
)

// ErrBrokenChain is returned when a document's revisions do not form a
// single path from one root.
var ErrBrokenChain = errors.New("revision chain is broken")

// Chain is an ordered, read-only view of one document's revisions, root
// first and latest last.
type Chain struct {
	revs []store.Revision
}

// NewChain orders rows by following PreviousID links from the root. It
// fails with ErrBrokenChain if there is not exactly one root, if a
// revision has two successors or a missing predecessor, or if some rows
// are not reachable from the root.
func NewChain(rows []store.Revision) (*Chain, error) {
	if len(rows) == 0 {
		return &Chain{}, nil
	}

	ids := make(map[int64]bool, len(rows))
	for _, r := range rows {
		ids[r.ID] = true
	}

	var root *store.Revision
	next := make(map[int64]*store.Revision, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.PreviousID == nil {
			if root != nil {
				return nil, fmt.Errorf("%w: roots %d and %d", ErrBrokenChain, root.ID, r.ID)
			}
			root = r
			continue
		}
		prev := *r.PreviousID
		if !ids[prev] {
			return nil, fmt.Errorf("%w: revision %d points at missing %d", ErrBrokenChain, r.ID, prev)
		}
		if other, ok := next[prev]; ok {
			return nil, fmt.Errorf("%w: revisions %d and %d both follow %d", ErrBrokenChain, other.ID, r.ID, prev)
		}
		next[prev] = r
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root", ErrBrokenChain)
	}

	ordered := make([]store.Revision, 0, len(rows))
	for r := root; r != nil; r = next[r.ID] {
		ordered = append(ordered, *r)
		if len(ordered) > len(rows) {
			break
		}
	}
	if len(ordered) != len(rows) {
		return nil, fmt.Errorf("%w: %d of %d revisions reachable from root %d",
			ErrBrokenChain, len(ordered), len(rows), root.ID)
	}
	return &Chain{revs: ordered}, nil
}

// Len returns the number of revisions.
func (c *Chain) Len() int { return len(c.revs) }

// Root returns the oldest revision, or nil for an empty chain.
func (c *Chain) Root() *store.Revision { return c.at(0) }

// Latest returns the newest revision, or nil for an empty chain.
func (c *Chain) Latest() *store.Revision { return c.at(len(c.revs) - 1) }

// SecondLatest returns the predecessor of Latest, or nil.
func (c *Chain) SecondLatest() *store.Revision { return c.at(len(c.revs) - 2) }

// At returns the i-th revision counting from the root, or nil.
func (c *Chain) At(i int) *store.Revision { return c.at(i) }

func (c *Chain) at(i int) *store.Revision {
	if i < 0 || i >= len(c.revs) {
		return nil
	}
	r := c.revs[i]
	return &r
}

// Revisions returns a copy of the chain, root first.
func (c *Chain) Revisions() []store.Revision {
	out := make([]store.Revision, len(c.revs))
	copy(out, c.revs)
	return out
}
