// interfaces.go defines the storage abstraction for revision persistence.
//
// Separated from the SQLite implementation so the revision engine can run on
// the in-memory and badger backends too. Reads happen outside transactions;
// every read-modify-write goes through Update so that a policy decision and
// the writes it implies commit or roll back together.

package store

import (
	"context"
	"time"
)

// Reader defines read-only operations over revisions.
type Reader interface {
	// Revisions returns every revision of a document in ascending ID order.
	// A document with no revisions yields an empty slice.
	Revisions(ctx context.Context, documentID string) ([]Revision, error)

	// Revision returns one revision of a document, or ErrRevisionNotFound.
	Revision(ctx context.Context, documentID string, id int64) (*Revision, error)

	// CreatedSince returns the creation times of all revisions created at
	// or after since, across documents.
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)

	// Documents returns the IDs of documents that have revisions, sorted.
	Documents(ctx context.Context) ([]string, error)
}

// Tx is the view of the store inside an Update transaction.
type Tx interface {
	// Revisions returns every revision of a document in ascending ID order.
	Revisions(ctx context.Context, documentID string) ([]Revision, error)

	// Insert stores a new revision and sets its ID.
	Insert(ctx context.Context, r *Revision) error

	// Update overwrites FullText, CreatedAt, PreviousID and DiffText of an
	// existing revision.
	Update(ctx context.Context, r *Revision) error

	// Delete removes a revision. It fails with ErrReferenced if another
	// revision points at it.
	Delete(ctx context.Context, id int64) error
}

// Maintainer defines lifecycle operations.
type Maintainer interface {
	// Checkpoint flushes pending writes to durable storage.
	Checkpoint(ctx context.Context) error

	// Close releases the underlying database.
	Close() error
}

// Store is the persistence interface for revisions.
type Store interface {
	Reader
	Maintainer

	// Update runs fn in a single write transaction. If fn returns an error
	// nothing it wrote is kept.
	Update(ctx context.Context, fn func(Tx) error) error
}
