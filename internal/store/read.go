package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Revisions returns all revisions of a document, oldest ID first.
func (s *SQLiteStore) Revisions(ctx context.Context, documentID string) ([]Revision, error) {
	return queryRevisions(ctx, s.db, documentID)
}

// Revision returns a single revision scoped to its document.
func (s *SQLiteStore) Revision(ctx context.Context, documentID string, id int64) (*Revision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE document_id = ? AND id = ?`,
		documentID, id)
	return scanRevision(row)
}

// CreatedSince returns creation times at or after since, oldest first.
func (s *SQLiteStore) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT created_at FROM revisions WHERE created_at >= ? ORDER BY created_at`,
		since.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query created times: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan created time: %w", err)
		}
		out = append(out, time.Unix(0, n).UTC())
	}
	return out, rows.Err()
}

// Documents returns the distinct document IDs that have revisions.
func (s *SQLiteStore) Documents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT document_id FROM revisions ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryRevisions(ctx context.Context, q querier, documentID string) ([]Revision, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE document_id = ? ORDER BY id`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()
	return scanRevisions(rows)
}
