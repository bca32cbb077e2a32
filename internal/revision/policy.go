package revision

import (
	"fmt"
	"time"

	"github.com/uttaparsa/notes-api/internal/diff"
	"github.com/uttaparsa/notes-api/internal/store"
)

// Outcome is what recording an edit did to the chain.
type Outcome int

const (
	// Unchanged means the text matched the latest revision; nothing was written.
	Unchanged Outcome = iota
	// Created means the document's root revision was created.
	Created
	// Appended means a new revision was added after the latest.
	Appended
	// Amended means the latest revision was rewritten in place.
	Amended
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Appended:
		return "appended"
	case Amended:
		return "amended"
	default:
		return "unchanged"
	}
}

// MarshalText renders the outcome as its name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for _, c := range []Outcome{Unchanged, Created, Appended, Amended} {
		if c.String() == string(b) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Decision is the result of Decide. Revision is the row to insert
// (Created, Appended), the rewritten row to update (Amended) or the
// untouched latest row (Unchanged).
type Decision struct {
	Outcome  Outcome
	Revision store.Revision
}

// Decide applies the coalescing rules to an incoming edit:
//
//   - no revisions: create the root with an empty diff
//   - text equal to the latest revision: do nothing
//   - latest older than minInterval: append a revision diffed against latest
//   - otherwise: amend latest, re-diffing against its predecessor, or
//     against the empty text when latest is the root
func Decide(c *Chain, documentID, text string, now time.Time, minInterval time.Duration) Decision {
	latest := c.Latest()
	if latest == nil {
		return Decision{
			Outcome: Created,
			Revision: store.Revision{
				DocumentID: documentID,
				FullText:   text,
				CreatedAt:  now,
			},
		}
	}

	if text == latest.FullText {
		return Decision{Outcome: Unchanged, Revision: *latest}
	}

	if now.Sub(latest.CreatedAt) >= minInterval {
		return Decision{
			Outcome: Appended,
			Revision: store.Revision{
				DocumentID: documentID,
				FullText:   text,
				CreatedAt:  now,
				PreviousID: store.ID(latest.ID),
				DiffText:   diff.Create(latest.FullText, text),
			},
		}
	}

	base := ""
	if prev := c.SecondLatest(); prev != nil {
		base = prev.FullText
	}
	amended := *latest
	amended.FullText = text
	amended.DiffText = diff.Create(base, text)
	amended.CreatedAt = now
	return Decision{Outcome: Amended, Revision: amended}
}
