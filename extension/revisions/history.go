// history.go implements the read commands: history, show and patch.

package revisions

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/format"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/store"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history <document>",
		Short: "Show revision history",
		Long:  `List a document's revisions, newest first.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Limit number of revisions shown")
	c.Flags().BoolP(extension.FlagDiff, "d", false, "Show the patch for each revision")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, args []string) error {
	ctx := c.Context()
	limit, _ := c.Flags().GetInt(extension.FlagLimit)
	showDiff, _ := c.Flags().GetBool(extension.FlagDiff)
	doc := args[0]

	if limit < 0 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be >= 0, got %d", limit))
	}

	revs, err := e.svc.History(ctx, doc)
	log.Event("revisions:history", "history").Author(cmd.Author()).Document(doc).Detail("count", len(revs)).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history %q: %w", doc, err))
	}
	if limit > 0 && len(revs) > limit {
		revs = revs[:limit]
	}

	if cmd.JSON() {
		out := make([]store.RevisionJSON, len(revs))
		for i := range revs {
			out[i] = revs[i].ToJSON(showDiff)
		}
		return cmd.PrintJSON(out)
	}

	if len(revs) == 0 {
		fmt.Fprintf(cmd.Out(), "%s: no revisions\n", doc)
		return nil
	}
	format.History(cmd.Out(), revs)
	if !showDiff {
		return nil
	}
	colour := term.IsTerminal(int(os.Stdout.Fd()))
	for _, r := range revs {
		patch, err := e.svc.Patch(ctx, doc, r.ID)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("patch %q@%d: %w", doc, r.ID, err))
		}
		fmt.Fprintln(cmd.Out())
		format.Patch(cmd.Out(), patch, colour)
	}
	return nil
}

func (e *Extension) newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <document> <revision>",
		Short: "Print a document as of a revision",
		Args:  cobra.ExactArgs(2),
		RunE:  e.runShow,
	}
	c.Flags().Bool(extension.FlagRaw, false, "Output raw markdown without rendering")
	return c
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	doc := args[0]
	id, err := parseRevisionID(args[1])
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	r, err := e.svc.Revision(c.Context(), doc, id)
	log.Event("revisions:show", "read").Author(cmd.Author()).Document(doc).Revision(id).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("show %q@%d: %w", doc, id, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(r.ToJSON(true))
	}

	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		rendered, renderErr := glamour.Render(r.FullText, "dark")
		if renderErr == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}
	fmt.Fprint(cmd.Out(), r.FullText)
	return nil
}

func (e *Extension) newPatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patch <document> <revision>",
		Short: "Show the unified diff a revision introduced",
		Long: `Print a unified diff from the revision's predecessor to the revision.
A root revision is shown against empty text.`,
		Args: cobra.ExactArgs(2),
		RunE: e.runPatch,
	}
}

func (e *Extension) runPatch(c *cobra.Command, args []string) error {
	doc := args[0]
	id, err := parseRevisionID(args[1])
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	patch, err := e.svc.Patch(c.Context(), doc, id)
	log.Event("revisions:patch", "patch").Author(cmd.Author()).Document(doc).Revision(id).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("patch %q@%d: %w", doc, id, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"patch": string(patch)})
	}
	if len(patch) == 0 {
		fmt.Fprintf(cmd.Out(), "revision %d makes no changes\n", id)
		return nil
	}
	format.Patch(cmd.Out(), patch, term.IsTerminal(int(os.Stdout.Fd())))
	return nil
}

func parseRevisionID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid revision %q: expected a positive integer", s)
	}
	return id, nil
}
