// log_storage.go persists audit entries in SQLite.
//
// Write failures are reported on stderr and otherwise ignored: an edit must
// be recorded even when its audit entry cannot be.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, project, source, author, action, document,
		                 outcome, revision, pruned, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start.UnixMilli(), e.End.UnixMilli(), l.project, e.Source,
		nilIfEmpty(e.Author), e.Action, nilIfEmpty(e.Document),
		nilIfEmpty(e.Outcome), nilIfZero(e.Revision), e.Pruned,
		e.Success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "noterev: audit log write failed: %v\n", err)
	}
}

func (l *Logger) recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT start, end, source, author, action, document, outcome, revision,
		       pruned, success, error, detail
		FROM log WHERE project = ? ORDER BY id DESC LIMIT ?`, l.project, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                            Entry
			start, end                   int64
			author, doc, outcome, errMsg sql.NullString
			rev                          sql.NullInt64
			detail                       sql.NullString
		)
		if err := rows.Scan(&start, &end, &e.Source, &author, &e.Action, &doc, &outcome,
			&rev, &e.Pruned, &e.Success, &errMsg, &detail); err != nil {
			return nil, err
		}
		e.Start = time.UnixMilli(start)
		e.End = time.UnixMilli(end)
		e.Author = author.String
		e.Document = doc.String
		e.Outcome = outcome.String
		e.Revision = rev.Int64
		e.Error = errMsg.String
		if detail.Valid {
			_ = json.Unmarshal([]byte(detail.String), &e.Detail)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// dbPathFunc returns the database path. Tests point it at a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Containers without a home directory still get a log.
		return filepath.Join(".noterev", "log", "noterev-log.db")
	}
	return filepath.Join(home, ".noterev", "log", "noterev-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash derives a short project identifier from the repository directory.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			start     INTEGER NOT NULL,
			end       INTEGER NOT NULL,
			project   TEXT NOT NULL,
			source    TEXT NOT NULL,
			author    TEXT,
			action    TEXT NOT NULL,
			document  TEXT,
			outcome   TEXT,
			revision  INTEGER,
			pruned    INTEGER NOT NULL DEFAULT 0,
			success   INTEGER NOT NULL,
			error     TEXT,
			detail    TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_document ON log(document);
	`)
	return err
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfZero(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}
