// Package log provides centralised audit logging for noterev operations.
// Entries are stored in ~/.noterev/log/noterev-log.db and record every CLI
// command and MCP tool invocation that touches revision history.
//
// Build entries with the fluent API:
//
//	log.Event("revision:record", "record").
//		Author(author).
//		Document(id).
//		Outcome(res.Outcome.String()).
//		Revision(res.Revision.ID).
//		Write(err)
//
// The source is "revision:{command}" for CLI commands and "mcp:{tool}" for
// MCP tools.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry is a single audit record.
type Entry struct {
	Source   string // e.g. "revision:record", "mcp:noterev_history"
	Author   string
	Action   string // verb: record, seed, read, prune, verify
	Document string // document ID requested

	// Outputs, set once the operation has succeeded.
	Outcome  string // unchanged, created, appended, amended
	Revision int64  // revision written or read
	Pruned   int

	Start time.Time
	End   time.Time

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs an Entry. Create with [Event] and finish with
// [Builder.Write].
type Builder struct {
	entry Entry
}

// Event starts an entry for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now(),
		},
	}
}

// Author sets who performed the operation. MCP tools use "mcp".
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Document sets the document the operation targets.
func (b *Builder) Document(id string) *Builder {
	b.entry.Document = id
	return b
}

// Revision sets the revision written or read.
func (b *Builder) Revision(id int64) *Builder {
	b.entry.Revision = id
	return b
}

// Outcome records what a record call did to the history.
func (b *Builder) Outcome(outcome string) *Builder {
	b.entry.Outcome = outcome
	return b
}

// Pruned records how many revisions were removed.
func (b *Builder) Pruned(n int) *Builder {
	b.entry.Pruned = n
	return b
}

// Detail adds operation-specific data such as day counts or issue totals.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write stores the entry, marking it failed when err is non-nil.
//
//	res, err := svc.RecordEdit(ctx, id, text)
//	log.Event("revision:record", "record").Document(id).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Callers may ignore the error; audit logging is best-effort.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject tags subsequent entries with a hash of the repository
// directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. A no-op when the logger is not open.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Recent returns up to n of the latest entries for the current project,
// newest first.
func Recent(n int) ([]Entry, error) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return nil, nil
	}
	return l.recent(n)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
