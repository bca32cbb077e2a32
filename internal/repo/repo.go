// Package repo provides repository initialisation, discovery and opening
// for noterev.
//
// A noterev repository is a .noterev directory holding the document catalog
// (catalog.db) and a revision store, either revisions.db (SQLite) or
// revisions.badger/ (BadgerDB). Discovery mirrors git: starting from the
// working directory, walk up until a .noterev directory is found or the
// filesystem root is reached.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uttaparsa/notes-api/internal/catalog"
	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/logging"
	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/store/badger"
)

const (
	// Dir is the directory name for the noterev repository.
	Dir = config.Dir
	// CatalogFile holds the tracked document IDs.
	CatalogFile = "catalog.db"
	// SQLiteFile is the revision store for the sqlite backend.
	SQLiteFile = "revisions.db"
	// BadgerDir is the revision store for the badger backend.
	BadgerDir = "revisions.badger"
)

var (
	// ErrNotInitialised is returned when no noterev repository is found.
	ErrNotInitialised = errors.New("noterev not initialised (run 'noterev init')")
	// ErrExists is returned by Init when the repository already has a store.
	ErrExists = errors.New("revision store already exists (use --force to reinitialise)")
)

// StorePath returns the revision store location for backend inside the
// .noterev directory dir.
func StorePath(dir, backend string) string {
	if backend == config.BackendBadger {
		return filepath.Join(dir, BadgerDir)
	}
	return filepath.Join(dir, SQLiteFile)
}

// Init creates a repository in dir (empty for the current directory) with
// a store for backend. Like git, init writes no config; the backend in
// use is chosen by store.backend, falling back to whichever store exists.
//
// With force an existing store for backend is removed first. With local
// the store and catalog are added to .noterev/.gitignore.
func Init(force bool, backend string, local bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	if backend == "" {
		backend = config.DefaultBackend
	}
	root := filepath.Join(dir, Dir)
	storePath := StorePath(root, backend)

	if _, err := os.Stat(storePath); err == nil {
		if !force {
			return ErrExists
		}
		if err := os.RemoveAll(storePath); err != nil {
			return fmt.Errorf("remove store: %w", err)
		}
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	st, err := openStore(storePath, backend, logging.Nop())
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	cat, err := catalog.Open(filepath.Join(root, CatalogFile), 0)
	if err != nil {
		return err
	}
	if err := cat.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}

	if err := writeGitignore(root); err != nil {
		return err
	}
	if local {
		if err := Ignore(root, CatalogFile, filepath.Base(storePath)); err != nil {
			return fmt.Errorf("ignore store: %w", err)
		}
	}
	return nil
}

// DiscoverDir finds the .noterev directory, walking up the tree.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		root := filepath.Join(dir, Dir)
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// Repo is an opened repository.
type Repo struct {
	Dir     string
	Backend string
	Store   store.Store
	Catalog *catalog.SQLiteCatalog
}

// Open opens the repository at the .noterev directory dir (discovered when
// empty) using the backend configured in cfg.
func Open(dir string, cfg *config.Config, logger logging.Logger) (*Repo, error) {
	if dir == "" {
		var err error
		if dir, err = DiscoverDir(); err != nil {
			return nil, err
		}
	}

	backend, err := detectBackend(dir, cfg.Backend())
	if err != nil {
		return nil, err
	}
	if backend != cfg.Backend() {
		logger.Warnw("configured backend has no store, using existing one",
			"configured", cfg.Backend(), "using", backend)
	}

	st, err := openStore(StorePath(dir, backend), backend, logger)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Open(filepath.Join(dir, CatalogFile), cfg.MaxDocumentID())
	if err != nil {
		st.Close()
		return nil, err
	}
	return &Repo{Dir: dir, Backend: backend, Store: st, Catalog: cat}, nil
}

// Close closes the catalog. The store is owned by the revision service,
// which checkpoints it before closing.
func (r *Repo) Close() error {
	return r.Catalog.Close()
}

// detectBackend prefers the configured backend and falls back to the one
// whose store exists.
func detectBackend(dir, configured string) (string, error) {
	if exists(StorePath(dir, configured)) {
		return configured, nil
	}
	for _, b := range []string{config.BackendSQLite, config.BackendBadger} {
		if exists(StorePath(dir, b)) {
			return b, nil
		}
	}
	return "", ErrNotInitialised
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func openStore(path, backend string, logger logging.Logger) (store.Store, error) {
	switch backend {
	case config.BackendBadger:
		st, err := badger.Open(badger.Config{Path: path, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return st, nil
	case config.BackendSQLite:
		st, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if err := st.Init(); err != nil {
			st.Close()
			return nil, fmt.Errorf("init store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidValue, backend)
	}
}
