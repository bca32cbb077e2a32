// Package badger implements store.Store on BadgerDB, an embedded key-value
// store. It is selected with store.backend: badger and suits repositories
// with many documents and frequent edits.
//
// Key layout (all integers big-endian so keys sort numerically):
//
//	r/<id>              revision record (JSON)
//	d/<doc>\x00<id>     document index
//	p/<prev><id>        successor index, guards deletes
//	c/<nanos><id>       creation time index
package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/uttaparsa/notes-api/internal/store"
)

var (
	prefixRevision = []byte("r/")
	prefixDocument = []byte("d/")
	prefixPrevious = []byte("p/")
	prefixCreated  = []byte("c/")
	sequenceKey    = []byte("seq/revisions")
)

// conflictRetries bounds how often Update re-runs after a write conflict.
const conflictRetries = 5

// Config holds configuration for a badger-backed store.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in memory. Useful for tests.
	InMemory bool
	// Logger receives badger's internal logging. Nil disables it.
	Logger *zap.SugaredLogger
}

// Store is a revision store on BadgerDB.
type Store struct {
	db       *badger.DB
	seq      *badger.Sequence
	inMemory bool
}

var _ store.Store = (*Store)(nil)

// badgerLogger adapts zap to badger's Logger interface.
type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.logger.Infof(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

// Open opens (creating if needed) a badger store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	seq, err := db.GetSequence(sequenceKey, 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("revision sequence: %w", err)
	}
	return &Store{db: db, seq: seq, inMemory: cfg.InMemory}, nil
}

// record is the stored value. Times are unix nanoseconds.
type record struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id"`
	FullText   string `json:"full_text"`
	CreatedAt  int64  `json:"created_at"`
	PreviousID *int64 `json:"previous_revision_id,omitempty"`
	DiffText   string `json:"diff_text,omitempty"`
}

func (rec *record) revision() store.Revision {
	return store.Revision{
		ID:         rec.ID,
		DocumentID: rec.DocumentID,
		FullText:   rec.FullText,
		CreatedAt:  time.Unix(0, rec.CreatedAt).UTC(),
		PreviousID: rec.PreviousID,
		DiffText:   rec.DiffText,
	}
}

func toRecord(r *store.Revision) record {
	return record{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		FullText:   r.FullText,
		CreatedAt:  r.CreatedAt.UnixNano(),
		PreviousID: r.PreviousID,
		DiffText:   r.DiffText,
	}
}

func u64(n int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func revisionKey(id int64) []byte { return join(prefixRevision, u64(id)) }

func documentPrefix(doc string) []byte {
	return join(prefixDocument, []byte(doc), []byte{0})
}

func documentKey(doc string, id int64) []byte {
	return join(documentPrefix(doc), u64(id))
}

func previousKey(prev, id int64) []byte { return join(prefixPrevious, u64(prev), u64(id)) }

func createdKey(nanos, id int64) []byte { return join(prefixCreated, u64(nanos), u64(id)) }

// Revisions returns all revisions of a document, oldest ID first.
func (s *Store) Revisions(_ context.Context, documentID string) ([]store.Revision, error) {
	var out []store.Revision
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = revisions(txn, documentID)
		return err
	})
	return out, err
}

// Revision returns a single revision scoped to its document.
func (s *Store) Revision(_ context.Context, documentID string, id int64) (*store.Revision, error) {
	var rec *record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = get(txn, id)
		return err
	})
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
	var out []time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefixCreated
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(join(prefixCreated, u64(since.UnixNano()))); it.ValidForPrefix(prefixCreated); it.Next() {
			k := it.Item().Key()
			nanos := int64(binary.BigEndian.Uint64(k[len(prefixCreated):]))
			out = append(out, time.Unix(0, nanos).UTC())
		}
		return nil
	})
	return out, err
}

// Documents returns the distinct document IDs that have revisions.
func (s *Store) Documents(_ context.Context) ([]string, error) {
	ids := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefixDocument
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().Key()[len(prefixDocument):]
			end := bytes.IndexByte(k, 0)
			if end < 0 {
				return fmt.Errorf("corrupt document key %q", k)
			}
			id := string(k[:end])
			if len(ids) == 0 || ids[len(ids)-1] != id {
				ids = append(ids, id)
			}
		}
		return nil
	})
	return ids, err
}

// Update runs fn in a badger read-write transaction, retrying when another
// transaction committed a conflicting write first.
func (s *Store) Update(_ context.Context, fn func(store.Tx) error) error {
	var err error
	for range conflictRetries {
		err = s.db.Update(func(txn *badger.Txn) error {
			return fn(&tx{txn: txn, s: s})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("update after %d attempts: %w", conflictRetries, err)
}

// Checkpoint syncs written data to disk. In-memory stores have no
// value log to sync.
func (s *Store) Checkpoint(context.Context) error {
	if s.inMemory {
		return nil
	}
	if err := s.db.Sync(); err != nil {
		return fmt.Errorf("badger sync: %w", err)
	}
	return nil
}

// Close releases the ID sequence and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return fmt.Errorf("release sequence: %w", err)
	}
	return s.db.Close()
}

type tx struct {
	txn *badger.Txn
	s   *Store
}

func (t *tx) Revisions(_ context.Context, documentID string) ([]store.Revision, error) {
	return revisions(t.txn, documentID)
}

func (t *tx) Insert(_ context.Context, r *store.Revision) error {
	if r.PreviousID != nil {
		if _, err := get(t.txn, *r.PreviousID); err != nil {
			return fmt.Errorf("insert revision: predecessor %d: %w", *r.PreviousID, err)
		}
	}
	// Sequences start at zero; revision IDs start at one.
	n, err := t.s.seq.Next()
	if err != nil {
		return fmt.Errorf("insert revision: next id: %w", err)
	}
	r.ID = int64(n) + 1
	if err := put(t.txn, toRecord(r)); err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

func (t *tx) Update(_ context.Context, r *store.Revision) error {
	old, err := get(t.txn, r.ID)
	if err != nil {
		return fmt.Errorf("update revision %d: %w", r.ID, err)
	}
	if err := unindex(t.txn, old); err != nil {
		return fmt.Errorf("update revision %d: %w", r.ID, err)
	}
	rec := toRecord(r)
	rec.DocumentID = old.DocumentID
	if err := put(t.txn, rec); err != nil {
		return fmt.Errorf("update revision %d: %w", r.ID, err)
	}
	return nil
}

func (t *tx) Delete(_ context.Context, id int64) error {
	rec, err := get(t.txn, id)
	if err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	successors := join(prefixPrevious, u64(id))
	opts.Prefix = successors
	it := t.txn.NewIterator(opts)
	it.Rewind()
	referenced := it.Valid()
	it.Close()
	if referenced {
		return fmt.Errorf("delete revision %d: %w", id, store.ErrReferenced)
	}

	if err := unindex(t.txn, rec); err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	if err := t.txn.Delete(revisionKey(id)); err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	return nil
}

func get(txn *badger.Txn, id int64) (*record, error) {
	item, err := txn.Get(revisionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrRevisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get revision %d: %w", id, err)
	}
	var rec record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return nil, fmt.Errorf("decode revision %d: %w", id, err)
	}
	return &rec, nil
}

func put(txn *badger.Txn, rec record) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := txn.Set(revisionKey(rec.ID), val); err != nil {
		return err
	}
	if err := txn.Set(documentKey(rec.DocumentID, rec.ID), nil); err != nil {
		return err
	}
	if rec.PreviousID != nil {
		if err := txn.Set(previousKey(*rec.PreviousID, rec.ID), nil); err != nil {
			return err
		}
	}
	return txn.Set(createdKey(rec.CreatedAt, rec.ID), nil)
}

// unindex removes the secondary index entries for rec.
func unindex(txn *badger.Txn, rec *record) error {
	if err := txn.Delete(documentKey(rec.DocumentID, rec.ID)); err != nil {
		return err
	}
	if rec.PreviousID != nil {
		if err := txn.Delete(previousKey(*rec.PreviousID, rec.ID)); err != nil {
			return err
		}
	}
	return txn.Delete(createdKey(rec.CreatedAt, rec.ID))
}

func revisions(txn *badger.Txn, documentID string) ([]store.Revision, error) {
	prefix := documentPrefix(documentID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	out := []store.Revision{}
	for it.Rewind(); it.Valid(); it.Next() {
		k := it.Item().Key()
		id := int64(binary.BigEndian.Uint64(k[len(prefix):]))
		rec, err := get(txn, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec.revision())
	}
	return out, nil
}
