// Package store defines revision persistence types and the Store interface.
// Implementations handle the actual database operations while consumers
// depend only on this interface, enabling testing and alternative backends.
package store

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrRevisionNotFound indicates the requested revision does not exist for
	// the given document.
	ErrRevisionNotFound = errors.New("revision not found")
	// ErrReferenced is returned when deleting a revision that another
	// revision still names as its predecessor.
	ErrReferenced = errors.New("revision is still referenced")
)

// Revision is one snapshot in a document's history. Revisions of a document
// form a chain through PreviousID that ends at a single root.
type Revision struct {
	ID         int64     // Store-assigned, immutable
	DocumentID string    // Owning document
	FullText   string    // Complete text at this revision (authoritative)
	CreatedAt  time.Time // Creation time, or time of the most recent amend
	PreviousID *int64    // Predecessor revision, nil for the root
	DiffText   string    // Cached diff from the predecessor's text
}

// IsRoot reports whether the revision has no predecessor.
func (r *Revision) IsRoot() bool {
	return r.PreviousID == nil
}

// RevisionJSON is the API-friendly representation of a Revision.
type RevisionJSON struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id"`
	FullText   string `json:"full_text,omitempty"`
	CreatedAt  string `json:"created_at"`
	PreviousID *int64 `json:"previous_revision_id"`
	DiffText   string `json:"diff_text,omitempty"`
}

// ToJSON converts a Revision to its API representation. The text parameter
// controls whether full text and diff are included.
func (r *Revision) ToJSON(text bool) RevisionJSON {
	j := RevisionJSON{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		PreviousID: r.PreviousID,
	}
	if text {
		j.FullText = r.FullText
		j.DiffText = r.DiffText
	}
	return j
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// ID returns a pointer to id, for populating PreviousID.
func ID(id int64) *int64 {
	return &id
}
