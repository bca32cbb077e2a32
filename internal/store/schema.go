// schema.go defines the SQLite database schema and provides schema execution helpers.
//
// Schema files are embedded from the sql/ directory and executed in alphabetical
// order (hence the numeric prefixes like 001_). Every statement uses IF NOT
// EXISTS so Init can run against an existing database.
//
// Other packages that keep their own SQLite files follow the same pattern:
//
//	//go:embed sql/*.sql
//	var schemas embed.FS
//
//	if err := store.ExecEmbedded(db, schemas, "sql"); err != nil {
//	    return err
//	}

package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed sql/*.sql
var schemas embed.FS

// ExecEmbedded executes all .sql files from an embedded filesystem in alphabetical order.
// The dir parameter specifies the directory within the embed.FS to read from.
func ExecEmbedded(db *sql.DB, fsys embed.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read schema directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := dir + "/" + entry.Name()
		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func execSchema(db *sql.DB) error {
	return ExecEmbedded(db, schemas, "sql")
}
