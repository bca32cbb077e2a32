// track.go implements the catalog commands: track, untrack and ls.
//
// Only tracked documents accept edits. Untracking leaves recorded history
// in place; tracking the document again makes it writable.

package revisions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/internal/format"
	"github.com/uttaparsa/notes-api/internal/log"
)

func (e *Extension) newTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <document>...",
		Short: "Start tracking documents",
		Long: `Register document IDs so their edits can be recorded.

  noterev track notes/today.md notes/ideas.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.runTrack,
	}
}

func (e *Extension) runTrack(c *cobra.Command, args []string) error {
	n, err := e.cat.Track(c.Context(), args...)
	log.Event("revisions:track", "track").
		Author(cmd.Author()).
		Detail("documents", len(args)).
		Detail("added", n).
		Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("track: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]int{"added": n})
	}
	fmt.Fprintf(cmd.Out(), "Tracking %d new document(s)\n", n)
	return nil
}

func (e *Extension) newUntrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untrack <document>",
		Short: "Stop tracking a document",
		Long:  `Remove a document from the catalog. Its history is kept.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runUntrack,
	}
}

func (e *Extension) runUntrack(c *cobra.Command, args []string) error {
	doc := args[0]
	ok, err := e.cat.Untrack(c.Context(), doc)
	log.Event("revisions:untrack", "untrack").Author(cmd.Author()).Document(doc).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("untrack %q: %w", doc, err))
	}
	if !ok {
		return cmd.PrintJSONError(fmt.Errorf("untrack %q: not tracked", doc))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"untracked": doc})
	}
	fmt.Fprintf(cmd.Out(), "Untracked %s\n", doc)
	return nil
}

func (e *Extension) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List tracked documents",
		Args:  cobra.NoArgs,
		RunE:  e.runLs,
	}
}

func (e *Extension) runLs(c *cobra.Command, _ []string) error {
	docs, err := e.cat.List(c.Context())
	log.Event("revisions:ls", "list").Author(cmd.Author()).Detail("count", len(docs)).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(docs)
	}
	format.Documents(cmd.Out(), docs)
	return nil
}
