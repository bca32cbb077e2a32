// Package workspace opens a noterev repository as a ready-to-use engine:
// configuration, the revision store selected by store.backend, the
// document catalog and a revision.Service over them.
package workspace

import (
	"fmt"

	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/logging"
	"github.com/uttaparsa/notes-api/internal/metrics"
	"github.com/uttaparsa/notes-api/internal/repo"
	"github.com/uttaparsa/notes-api/internal/revision"
)

// Options control how a workspace is opened.
type Options struct {
	// Dir is the .noterev directory. Empty discovers it from the working
	// directory.
	Dir string
	// Metrics, when set, receives engine metrics.
	Metrics *metrics.Metrics
}

// Workspace is an opened repository.
type Workspace struct {
	repo    *repo.Repo
	svc     *revision.Service
	cfg     *config.Config
	metrics *metrics.Metrics
}

// Open loads configuration, opens the repository and builds the service.
// Returns repo.ErrNotInitialised when no repository is found.
func Open(opts Options) (*Workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logging.SetLogLevel(cfg.LogLevel()); err != nil {
		return nil, err
	}

	r, err := repo.Open(opts.Dir, cfg, logging.New("store", logging.NewField("backend", cfg.Backend())))
	if err != nil {
		return nil, err
	}

	svcOpts := []revision.Option{revision.WithLogger(logging.New("revision"))}
	if opts.Metrics != nil {
		svcOpts = append(svcOpts, revision.WithMetrics(opts.Metrics))
	}
	svc, err := revision.New(r.Store, r.Catalog, cfg.RevisionOptions(), svcOpts...)
	if err != nil {
		r.Store.Close()
		r.Close()
		return nil, fmt.Errorf("configure revisions: %w", err)
	}

	return &Workspace{repo: r, svc: svc, cfg: cfg, metrics: opts.Metrics}, nil
}

// Service returns the revision service.
func (w *Workspace) Service() *revision.Service { return w.svc }

// Repo returns the opened repository, including its catalog.
func (w *Workspace) Repo() *repo.Repo { return w.repo }

// Config returns the configuration the workspace was opened with.
func (w *Workspace) Config() *config.Config { return w.cfg }

// Dir returns the .noterev directory.
func (w *Workspace) Dir() string { return w.repo.Dir }

// Close checkpoints and closes the store, then the catalog.
func (w *Workspace) Close() error {
	svcErr := w.svc.Close()
	catErr := w.repo.Close()
	if svcErr != nil {
		return svcErr
	}
	return catErr
}
