// maintain.go implements stats, verify and prune.

package revisions

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/format"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/progress"
	"github.com/uttaparsa/notes-api/internal/revision"
)

// ErrVerifyFailed is returned when verify finds problems.
var ErrVerifyFailed = errors.New("verification found problems")

func (e *Extension) newStatsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "stats",
		Short: "Show revisions created per day",
		Args:  cobra.NoArgs,
		RunE:  e.runStats,
	}
	c.Flags().Int(extension.FlagDays, revision.DefaultStatsDays, "Number of days to report")
	return c
}

func (e *Extension) runStats(c *cobra.Command, _ []string) error {
	days, _ := c.Flags().GetInt(extension.FlagDays)

	counts, err := e.svc.Stats(c.Context(), days)
	log.Event("revisions:stats", "stats").Author(cmd.Author()).Detail("days", days).Write(err)
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	if cmd.JSON() {
		return cmd.PrintJSON(counts)
	}
	format.Stats(cmd.Out(), counts)
	return nil
}

func (e *Extension) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [document]",
		Short: "Check revision chains",
		Long: `Check chain structure, revision limits and cached diffs.
Without a document, every document with history is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runVerify,
	}
}

func (e *Extension) runVerify(c *cobra.Command, args []string) error {
	ctx := c.Context()

	var docs []string
	if len(args) == 1 {
		docs = args
	} else {
		var err error
		if docs, err = e.svc.Documents(ctx); err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	reports := make([]revision.Report, 0, len(docs))
	issues := 0
	prog := progress.New("verifying", len(docs))
	for _, d := range docs {
		r, err := e.svc.Verify(ctx, d)
		prog.Step()
		if err != nil {
			prog.Done()
			log.Event("revisions:verify", "verify").Author(cmd.Author()).Document(d).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("verify %q: %w", d, err))
		}
		issues += len(r.Issues)
		reports = append(reports, r)
	}
	prog.Done()
	log.Event("revisions:verify", "verify").
		Author(cmd.Author()).
		Detail("documents", len(docs)).
		Detail("issues", issues).
		Write(nil)

	if cmd.JSON() {
		if err := cmd.PrintJSON(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			format.Report(cmd.Out(), r)
		}
	}
	if issues > 0 {
		return fmt.Errorf("%w: %d issue(s)", ErrVerifyFailed, issues)
	}
	return nil
}

func (e *Extension) newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune <document>",
		Short: "Trim history to revisions.max_revisions",
		Long: `Collapse the oldest revisions of a document until it is within
revisions.max_revisions. Recording an edit does this automatically;
run it after lowering the limit.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runPrune,
	}
}

func (e *Extension) runPrune(c *cobra.Command, args []string) error {
	doc := args[0]
	n, err := e.svc.Prune(c.Context(), doc)
	log.Event("revisions:prune", "prune").Author(cmd.Author()).Document(doc).Pruned(n).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("prune %q: %w", doc, err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]int{"pruned": n})
	}
	fmt.Fprintf(cmd.Out(), "%s: pruned %d revision(s)\n", doc, n)
	return nil
}
