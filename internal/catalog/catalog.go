// Package catalog keeps the registry of documents whose edits are recorded.
// It lives in its own SQLite file, separate from the revision store, so the
// revision backend can be swapped without touching it.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/uttaparsa/notes-api/internal/revision"
	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/validate"
)

//go:embed sql/*.sql
var schemas embed.FS

// Document is a catalog entry.
type Document struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteCatalog implements revision.Documents over a SQLite table.
type SQLiteCatalog struct {
	db    *sql.DB
	maxID int
}

var _ revision.Documents = (*SQLiteCatalog)(nil)

// Open opens the catalog database at path and creates its table. maxID
// limits document ID length (0 for no limit).
func Open(path string, maxID int) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", store.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if err := store.ExecEmbedded(db, schemas, "sql"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &SQLiteCatalog{db: db, maxID: maxID}, nil
}

// Close releases the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// Track registers document IDs, ignoring ones already present. It returns
// how many were new.
func (c *SQLiteCatalog) Track(ctx context.Context, ids ...string) (int, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		v, err := validate.DocumentID(id, c.maxID)
		if err != nil {
			return 0, err
		}
		clean = append(clean, v)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixNano()
	added := 0
	for _, id := range clean {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`, id, now)
		if err != nil {
			return 0, fmt.Errorf("track %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Untrack removes a document from the catalog. Its revisions stay in the
// revision store but no further edits are accepted.
func (c *SQLiteCatalog) Untrack(ctx context.Context, id string) (bool, error) {
	id, err := validate.DocumentID(id, c.maxID)
	if err != nil {
		return false, err
	}
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("untrack %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Exists reports whether the document is registered.
func (c *SQLiteCatalog) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up %s: %w", id, err)
	}
	return true, nil
}

// List returns all registered documents ordered by ID.
func (c *SQLiteCatalog) List(ctx context.Context) ([]Document, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, created_at FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		var created int64
		if err := rows.Scan(&d.ID, &created); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.CreatedAt = time.Unix(0, created).UTC()
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
