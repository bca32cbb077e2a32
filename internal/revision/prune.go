package revision

import (
	"github.com/uttaparsa/notes-api/internal/diff"
	"github.com/uttaparsa/notes-api/internal/store"
)

// collapse is one pruning step: Remove is deleted after Rebased (its
// successor) has been re-pointed at the root with a fresh diff.
type collapse struct {
	Remove  store.Revision
	Rebased store.Revision
}

// planCollapse returns the next pruning step for a chain holding more than
// limit revisions. The root is never removed and its successor is the one
// collapsed, so the oldest history goes first. Chains of fewer than three
// revisions cannot be collapsed.
func planCollapse(c *Chain, limit int) (collapse, bool) {
	if c.Len() <= limit || c.Len() < 3 {
		return collapse{}, false
	}
	root, r1, r2 := c.At(0), c.At(1), c.At(2)

	rebased := *r2
	rebased.PreviousID = store.ID(root.ID)
	rebased.DiffText = diff.Create(root.FullText, r2.FullText)
	return collapse{Remove: *r1, Rebased: rebased}, true
}
