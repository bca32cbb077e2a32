// Package memory implements store.Store on go-memdb. It keeps everything in
// process memory and is meant for embedding the revision engine in tests
// and short-lived tools.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/uttaparsa/notes-api/internal/store"
)

const tblRevisions = "revisions"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblRevisions: {
			Name: tblRevisions,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				"document": {
					Name:    "document",
					Indexer: &memdb.StringFieldIndex{Field: "DocumentID"},
				},
				"previous": {
					Name:    "previous",
					Indexer: &memdb.IntFieldIndex{Field: "PreviousID"},
				},
				"created": {
					Name:    "created",
					Indexer: &memdb.IntFieldIndex{Field: "CreatedAt"},
				},
			},
		},
	},
}

// record is the stored form. PreviousID 0 means no predecessor; IDs start
// at 1. Stored records are never modified, updates insert a replacement.
type record struct {
	ID         int64
	DocumentID string
	FullText   string
	CreatedAt  int64
	PreviousID int64
	DiffText   string
}

func toRecord(r *store.Revision) *record {
	rec := &record{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		FullText:   r.FullText,
		CreatedAt:  r.CreatedAt.UnixNano(),
		DiffText:   r.DiffText,
	}
	if r.PreviousID != nil {
		rec.PreviousID = *r.PreviousID
	}
	return rec
}

func (rec *record) revision() store.Revision {
	r := store.Revision{
		ID:         rec.ID,
		DocumentID: rec.DocumentID,
		FullText:   rec.FullText,
		CreatedAt:  time.Unix(0, rec.CreatedAt).UTC(),
		DiffText:   rec.DiffText,
	}
	if rec.PreviousID != 0 {
		r.PreviousID = store.ID(rec.PreviousID)
	}
	return r
}

// Store is an in-memory revision store.
type Store struct {
	db *memdb.MemDB

	// lastID is only touched inside write transactions, which memdb
	// serialises.
	lastID int64
}

var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Revisions returns all revisions of a document, oldest ID first.
func (s *Store) Revisions(_ context.Context, documentID string) ([]store.Revision, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return revisions(txn, documentID)
}

// Revision returns a single revision scoped to its document.
func (s *Store) Revision(_ context.Context, documentID string, id int64) (*store.Revision, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	rec, err := byID(txn, id)
	if err != nil {
		return nil, err
	}
	if rec.DocumentID != documentID {
		return nil, store.ErrRevisionNotFound
	}
	r := rec.revision()
	return &r, nil
}

// CreatedSince returns creation times at or after since, oldest first.
func (s *Store) CreatedSince(_ context.Context, since time.Time) ([]time.Time, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.LowerBound(tblRevisions, "created", since.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("find revisions since %s: %w", since, err)
	}
	var out []time.Time
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		out = append(out, time.Unix(0, raw.(*record).CreatedAt).UTC())
	}
	return out, nil
}

// Documents returns the distinct document IDs that have revisions.
func (s *Store) Documents(_ context.Context) ([]string, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblRevisions, "document")
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	ids := []string{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		id := raw.(*record).DocumentID
		if len(ids) == 0 || ids[len(ids)-1] != id {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Update runs fn in a memdb write transaction and commits only if fn
// succeeds.
func (s *Store) Update(_ context.Context, fn func(store.Tx) error) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := fn(&tx{txn: txn, s: s}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Checkpoint is a no-op; nothing is durable.
func (s *Store) Checkpoint(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

type tx struct {
	txn *memdb.Txn
	s   *Store
}

func (t *tx) Revisions(_ context.Context, documentID string) ([]store.Revision, error) {
	return revisions(t.txn, documentID)
}

func (t *tx) Insert(_ context.Context, r *store.Revision) error {
	if r.PreviousID != nil {
		if _, err := byID(t.txn, *r.PreviousID); err != nil {
			return fmt.Errorf("insert revision: predecessor %d: %w", *r.PreviousID, err)
		}
	}
	t.s.lastID++
	r.ID = t.s.lastID
	if err := t.txn.Insert(tblRevisions, toRecord(r)); err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

func (t *tx) Update(_ context.Context, r *store.Revision) error {
	old, err := byID(t.txn, r.ID)
	if err != nil {
		return fmt.Errorf("update revision %d: %w", r.ID, err)
	}
	rec := toRecord(r)
	rec.DocumentID = old.DocumentID
	if err := t.txn.Insert(tblRevisions, rec); err != nil {
		return fmt.Errorf("update revision %d: %w", r.ID, err)
	}
	return nil
}

func (t *tx) Delete(_ context.Context, id int64) error {
	rec, err := byID(t.txn, id)
	if err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	ref, err := t.txn.First(tblRevisions, "previous", id)
	if err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	if ref != nil {
		return fmt.Errorf("delete revision %d: %w", id, store.ErrReferenced)
	}
	if err := t.txn.Delete(tblRevisions, rec); err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	return nil
}

func byID(txn *memdb.Txn, id int64) (*record, error) {
	raw, err := txn.First(tblRevisions, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find revision %d: %w", id, err)
	}
	if raw == nil {
		return nil, store.ErrRevisionNotFound
	}
	return raw.(*record), nil
}

func revisions(txn *memdb.Txn, documentID string) ([]store.Revision, error) {
	iter, err := txn.Get(tblRevisions, "document", documentID)
	if err != nil {
		return nil, fmt.Errorf("find revisions of %s: %w", documentID, err)
	}
	out := []store.Revision{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		out = append(out, raw.(*record).revision())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
