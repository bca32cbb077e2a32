package store

import (
	"context"
	"database/sql"
	"fmt"
)

// sqliteTx implements Tx over an open SQL transaction.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Revisions(ctx context.Context, documentID string) ([]Revision, error) {
	return queryRevisions(ctx, t.tx, documentID)
}

func (t *sqliteTx) Insert(ctx context.Context, r *Revision) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO revisions (document_id, full_text, created_at, previous_revision_id, diff_text)
		 VALUES (?, ?, ?, ?, ?)`,
		r.DocumentID, r.FullText, r.CreatedAt.UnixNano(), prevArg(r.PreviousID), r.DiffText)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	r.ID = id
	return nil
}

func (t *sqliteTx) Update(ctx context.Context, r *Revision) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE revisions SET full_text = ?, created_at = ?, previous_revision_id = ?, diff_text = ?
		 WHERE id = ?`,
		r.FullText, r.CreatedAt.UnixNano(), prevArg(r.PreviousID), r.DiffText, r.ID)
	if err != nil {
		return fmt.Errorf("update revision %d: %w", r.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update revision %d: %w", r.ID, ErrRevisionNotFound)
	}
	return nil
}

// Delete checks for successors first so callers get ErrReferenced rather
// than a driver-specific foreign key error.
func (t *sqliteTx) Delete(ctx context.Context, id int64) error {
	var refs int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revisions WHERE previous_revision_id = ?`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	if refs > 0 {
		return fmt.Errorf("delete revision %d: %w", id, ErrReferenced)
	}

	res, err := t.tx.ExecContext(ctx, `DELETE FROM revisions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete revision %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete revision %d: %w", id, ErrRevisionNotFound)
	}
	return nil
}
