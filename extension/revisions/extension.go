// Package revisions provides the revision history commands: tracking
// documents, recording edits and reading history back.
package revisions

import (
	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/catalog"
	"github.com/uttaparsa/notes-api/internal/revision"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the revisions extension.
type Extension struct {
	svc *revision.Service
	cat *catalog.SQLiteCatalog
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "revisions".
func (e *Extension) Name() string { return "revisions" }

// Init receives the opened workspace.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cat = ctx.Catalog()
	return nil
}

// Commands returns the revision commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newTrackCmd(),
		e.newUntrackCmd(),
		e.newLsCmd(),
		e.newRecordCmd(),
		e.newSeedCmd(),
		e.newHistoryCmd(),
		e.newShowCmd(),
		e.newPatchCmd(),
		e.newStatsCmd(),
		e.newVerifyCmd(),
		e.newPruneCmd(),
	}
}
