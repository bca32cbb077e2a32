// Package revision maintains a bounded, time-coalesced revision history for
// documents.
//
// Every recorded edit either creates a document's root revision, appends a
// revision, amends the latest one in place (when it is younger than the
// coalescing window) or does nothing (identical text). After an append,
// the oldest interior revisions are collapsed into the root's successor
// until the chain is back within MaxRevisions. Every revision keeps its
// full text, so reconstructing any revision is a single lookup; the cached
// diffs are for display only.
package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moby/locker"

	"github.com/uttaparsa/notes-api/internal/logging"
	"github.com/uttaparsa/notes-api/internal/metrics"
	"github.com/uttaparsa/notes-api/internal/store"
	"github.com/uttaparsa/notes-api/internal/validate"
)

// ErrNotFound is returned when the owning document does not exist.
var ErrNotFound = errors.New("document not found")

// Documents is the collaborator that knows which documents exist.
type Documents interface {
	Exists(ctx context.Context, documentID string) (bool, error)
}

// DocumentsFunc adapts a function to Documents.
type DocumentsFunc func(ctx context.Context, documentID string) (bool, error)

// Exists calls f.
func (f DocumentsFunc) Exists(ctx context.Context, documentID string) (bool, error) {
	return f(ctx, documentID)
}

// Result describes what RecordEdit did.
type Result struct {
	Outcome  Outcome        `json:"outcome"`
	Revision store.Revision `json:"-"`
	Pruned   int            `json:"pruned"`
}

// Service records edits and serves revision history.
type Service struct {
	store   store.Store
	docs    Documents
	opts    Options
	locks   *locker.Locker
	clock   func() time.Time
	logger  logging.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the operational logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics enables metric collection.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service over st. It fails if opts are out of range.
func New(st store.Store, docs Documents, opts Options, options ...Option) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		store:  st,
		docs:   docs,
		opts:   opts,
		locks:  locker.New(),
		clock:  time.Now,
		logger: logging.New("revision"),
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Options returns the tunables in effect.
func (s *Service) Options() Options { return s.opts }

// Close checkpoints and closes the underlying store.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		s.logger.Warnw("checkpoint before close failed", "error", err)
	}
	return s.store.Close()
}

// lock serialises writers of one document. The returned func unlocks.
func (s *Service) lock(documentID string) func() {
	s.locks.Lock(documentID)
	return func() {
		if err := s.locks.Unlock(documentID); err != nil {
			s.logger.Errorw("unlock document", "document", documentID, "error", err)
		}
	}
}

// checkDocument validates the ID and confirms the document exists.
func (s *Service) checkDocument(ctx context.Context, documentID string) (string, error) {
	id, err := validate.DocumentID(documentID, s.opts.MaxDocumentID)
	if err != nil {
		return "", err
	}
	ok, err := s.docs.Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("look up document %s: %w", id, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return id, nil
}

// RecordEdit records that the document's text is now text.
//
// The decision and its write commit in one transaction under a per-document
// lock. After an append, pruning runs in its own transactions; if pruning
// fails the append still stands and the error is returned with the result.
func (s *Service) RecordEdit(ctx context.Context, documentID, text string) (Result, error) {
	started := time.Now()

	id, err := s.checkDocument(ctx, documentID)
	if err != nil {
		return Result{}, err
	}
	if err := validate.Content(text, s.opts.MaxContent); err != nil {
		return Result{}, err
	}

	unlock := s.lock(id)
	defer unlock()

	var res Result
	err = s.store.Update(ctx, func(tx store.Tx) error {
		rows, err := tx.Revisions(ctx, id)
		if err != nil {
			return err
		}
		chain, err := NewChain(rows)
		if err != nil {
			return err
		}

		d := Decide(chain, id, text, s.clock(), s.opts.MinInterval)
		switch d.Outcome {
		case Created, Appended:
			err = tx.Insert(ctx, &d.Revision)
		case Amended:
			err = tx.Update(ctx, &d.Revision)
		}
		if err != nil {
			return err
		}
		res = Result{Outcome: d.Outcome, Revision: d.Revision}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("record edit of %s: %w", id, err)
	}

	if res.Outcome == Appended {
		res.Pruned, err = s.prune(ctx, id)
		s.metrics.AddPruned(res.Pruned)
		if err != nil {
			s.metrics.AddPruneFailure()
			s.logger.Warnw("pruning failed", "document", id, "revision", res.Revision.ID, "error", err)
			return res, fmt.Errorf("prune %s: %w", id, err)
		}
	}

	s.metrics.AddRecord(res.Outcome.String(), time.Since(started).Seconds())
	s.logger.Debugw("edit recorded",
		"document", id,
		"outcome", res.Outcome.String(),
		"revision", res.Revision.ID,
		"pruned", res.Pruned,
	)
	return res, nil
}

// Prune collapses a document's history until it is within MaxRevisions.
// RecordEdit does this after every append; calling it directly is useful
// after lowering MaxRevisions. It returns how many revisions were removed.
func (s *Service) Prune(ctx context.Context, documentID string) (int, error) {
	id, err := validate.DocumentID(documentID, s.opts.MaxDocumentID)
	if err != nil {
		return 0, err
	}
	unlock := s.lock(id)
	defer unlock()

	n, err := s.prune(ctx, id)
	s.metrics.AddPruned(n)
	if err != nil {
		s.metrics.AddPruneFailure()
		return n, fmt.Errorf("prune %s: %w", id, err)
	}
	return n, nil
}

// prune runs collapse cycles, one transaction each, until nothing is left
// to collapse. The caller holds the document lock.
func (s *Service) prune(ctx context.Context, id string) (int, error) {
	removed := 0
	for {
		done := false
		err := s.store.Update(ctx, func(tx store.Tx) error {
			rows, err := tx.Revisions(ctx, id)
			if err != nil {
				return err
			}
			chain, err := NewChain(rows)
			if err != nil {
				return err
			}
			step, ok := planCollapse(chain, s.opts.MaxRevisions)
			if !ok {
				done = true
				return nil
			}
			// Re-point the successor first so the removed revision is
			// unreferenced when it is deleted.
			if err := tx.Update(ctx, &step.Rebased); err != nil {
				return err
			}
			return tx.Delete(ctx, step.Remove.ID)
		})
		if err != nil {
			return removed, err
		}
		if done {
			return removed, nil
		}
		removed++
	}
}

// Seed creates the root revision for a document that has no history yet,
// for documents that existed before revisions were recorded. It reports
// whether a revision was created.
func (s *Service) Seed(ctx context.Context, documentID, text string) (bool, error) {
	id, err := s.checkDocument(ctx, documentID)
	if err != nil {
		return false, err
	}
	if err := validate.Content(text, s.opts.MaxContent); err != nil {
		return false, err
	}

	unlock := s.lock(id)
	defer unlock()

	created := false
	err = s.store.Update(ctx, func(tx store.Tx) error {
		rows, err := tx.Revisions(ctx, id)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			return nil
		}
		root := store.Revision{DocumentID: id, FullText: text, CreatedAt: s.clock()}
		if err := tx.Insert(ctx, &root); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", id, err)
	}
	if created {
		s.metrics.AddRecord(Created.String(), 0)
	}
	return created, nil
}
