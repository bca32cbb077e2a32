package revision

import (
	"context"
	"errors"
	"fmt"

	"github.com/uttaparsa/notes-api/internal/diff"
	"github.com/uttaparsa/notes-api/internal/validate"
)

// Issue is one problem found by Verify.
type Issue struct {
	RevisionID int64  `json:"revision_id,omitempty"`
	Problem    string `json:"problem"`
}

// Report is the outcome of verifying one document.
type Report struct {
	DocumentID string  `json:"document_id"`
	Revisions  int     `json:"revisions"`
	Issues     []Issue `json:"issues,omitempty"`
}

// OK reports whether no issues were found.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Verify checks a document's chain structure, its length against
// MaxRevisions and every cached diff against the texts it connects.
// A diff that fails to replay is logged and reported; it does not make
// Verify fail, since full texts remain authoritative.
func (s *Service) Verify(ctx context.Context, documentID string) (Report, error) {
	id, err := validate.DocumentID(documentID, s.opts.MaxDocumentID)
	if err != nil {
		return Report{}, err
	}
	rows, err := s.store.Revisions(ctx, id)
	if err != nil {
		return Report{}, fmt.Errorf("verify %s: %w", id, err)
	}

	rep := Report{DocumentID: id, Revisions: len(rows)}
	chain, err := NewChain(rows)
	if err != nil {
		if !errors.Is(err, ErrBrokenChain) {
			return Report{}, err
		}
		rep.Issues = append(rep.Issues, Issue{Problem: err.Error()})
		return rep, nil
	}

	if chain.Len() > s.opts.MaxRevisions {
		rep.Issues = append(rep.Issues, Issue{
			Problem: fmt.Sprintf("%d revisions exceeds limit of %d", chain.Len(), s.opts.MaxRevisions),
		})
	}

	base := ""
	for i, r := range chain.Revisions() {
		// A root made by the create path has no diff. One that was amended
		// carries a diff from the empty text.
		if i == 0 && r.DiffText == "" {
			base = r.FullText
			continue
		}
		got, err := diff.Apply(base, r.DiffText)
		if err == nil && got != r.FullText {
			err = fmt.Errorf("%w: replay produced different text", diff.ErrMisaligned)
		}
		if err != nil {
			s.metrics.AddReplayFailure()
			s.logger.Warnw("cached diff does not replay", "document", id, "revision", r.ID, "error", err)
			rep.Issues = append(rep.Issues, Issue{RevisionID: r.ID, Problem: err.Error()})
		}
		base = r.FullText
	}
	return rep, nil
}
