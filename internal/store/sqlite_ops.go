// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, connection pooling,
// driver registration) from the revision logic. This is the only file that
// imports the SQLite driver.
//
// Design: WAL mode with busy timeout balances concurrency and durability.
// Per-connection pragmas go in the DSN because database/sql pools
// connections and a PRAGMA executed once only reaches one of them. Write
// transactions begin IMMEDIATE so two writers never both read a chain and
// then race to upgrade their locks.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// DSN builds the connection string for path with the pragmas every
// connection needs.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Open opens the SQLite database file at path. The caller should call Close
// on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL mode persists in the database file, so once is enough. Readers
	// (history, show) keep working while an edit is being recorded.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// scanner abstracts sql.Row and sql.Rows, enabling a single scan function
// to handle both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

const revisionColumns = `id, document_id, full_text, created_at, previous_revision_id, diff_text`

// scanRev extracts a Revision from a database row, handling the nullable
// predecessor.
func scanRev(sc scanner) (Revision, error) {
	var r Revision
	var created int64
	var prev sql.NullInt64

	if err := sc.Scan(&r.ID, &r.DocumentID, &r.FullText, &created, &prev, &r.DiffText); err != nil {
		return Revision{}, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	if prev.Valid {
		r.PreviousID = ID(prev.Int64)
	}
	return r, nil
}

// scanRevision converts sql.ErrNoRows to ErrRevisionNotFound.
func scanRevision(row *sql.Row) (*Revision, error) {
	r, err := scanRev(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRevisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan revision: %w", err)
	}
	return &r, nil
}

// scanRevisions iterates over query results, collecting revisions into a slice.
func scanRevisions(rows *sql.Rows) ([]Revision, error) {
	revs := []Revision{}
	for rows.Next() {
		r, err := scanRev(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// prevArg converts a nullable predecessor to a query argument.
func prevArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback
// automatically. If fn returns an error the transaction is rolled back; the
// deferred Rollback is a no-op after a successful commit.
//
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, `UPDATE ...`); err != nil {
//	        return err  // triggers rollback
//	    }
//	    return nil  // triggers commit
//	})
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Update runs fn in one IMMEDIATE transaction.
func (s *SQLiteStore) Update(ctx context.Context, fn func(Tx) error) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		return fn(&sqliteTx{tx: tx})
	})
}

// Checkpoint flushes the WAL to the main database file. Call before close
// or when the WAL has grown large.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}
