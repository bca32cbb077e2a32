package revision

import (
	"context"
	"fmt"
	"slices"

	"github.com/uttaparsa/notes-api/internal/diff"
	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/validate"
)

// History returns a document's revisions newest first. A document without
// revisions yields an empty slice. It reads without taking the document
// lock.
func (s *Service) History(ctx context.Context, documentID string) ([]store.Revision, error) {
	id, err := validate.DocumentID(documentID, s.opts.MaxDocumentID)
	if err != nil {
		return nil, err
	}
	revs, err := s.store.Revisions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", id, err)
	}
	// Appends always get a higher ID than the revision they follow and
	// pruning keeps that order, so ID order is chain order.
	slices.Reverse(revs)
	return revs, nil
}

// Revision returns one revision of a document.
func (s *Service) Revision(ctx context.Context, documentID string, revisionID int64) (*store.Revision, error) {
	id, err := validate.DocumentID(documentID, s.opts.MaxDocumentID)
	if err != nil {
		return nil, err
	}
	r, err := s.store.Revision(ctx, id, revisionID)
	if err != nil {
		return nil, fmt.Errorf("revision %d of %s: %w", revisionID, id, err)
	}
	return r, nil
}

// Reconstruct returns the document text as of a revision. Full text is
// stored with every revision so no diffs are replayed.
func (s *Service) Reconstruct(ctx context.Context, documentID string, revisionID int64) (string, error) {
	r, err := s.Revision(ctx, documentID, revisionID)
	if err != nil {
		return "", err
	}
	return r.FullText, nil
}

// Patch returns a unified diff from a revision's predecessor to the
// revision, computed from full texts. A root revision is diffed against
// empty text. A revision whose text equals its predecessor's yields nil.
func (s *Service) Patch(ctx context.Context, documentID string, revisionID int64) ([]byte, error) {
	r, err := s.Revision(ctx, documentID, revisionID)
	if err != nil {
		return nil, err
	}

	base, oldLabel := "", "/dev/null"
	if r.PreviousID != nil {
		prev, err := s.store.Revision(ctx, r.DocumentID, *r.PreviousID)
		if err != nil {
			return nil, fmt.Errorf("predecessor of revision %d: %w", r.ID, err)
		}
		base = prev.FullText
		oldLabel = label("a", prev)
	}
	lines := diff.Compute(base, r.FullText)
	if !diff.Changed(lines) {
		return nil, nil
	}
	return diff.Unified(oldLabel, label("b", r), lines)
}

func label(side string, r *store.Revision) string {
	return fmt.Sprintf("%s/%s@%d", side, r.DocumentID, r.ID)
}

// Documents returns the IDs of all documents with revisions.
func (s *Service) Documents(ctx context.Context) ([]string, error) {
	ids, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return ids, nil
}
