// record.go implements "noterev record" and "noterev seed".
//
// Both read the document's full current text from a file or stdin.

package revisions

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/revision"
	"github.com/uttaparsa/notes-api/internal/store"
)

func (e *Extension) newRecordCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "record <document>",
		Short: "Record an edit",
		Long: `Record that a document's text has changed.

Edits within revisions.min_interval of the latest revision amend it;
later edits append a new revision and prune the oldest beyond
revisions.max_revisions.

  noterev record notes/today.md < notes/today.md
  noterev record notes/today.md -f notes/today.md`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRecord,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read text from file instead of stdin")
	return c
}

type recordOutput struct {
	Outcome  revision.Outcome   `json:"outcome"`
	Revision store.RevisionJSON `json:"revision"`
	Pruned   int                `json:"pruned,omitempty"`
	Warning  string             `json:"warning,omitempty"`
}

func (e *Extension) runRecord(c *cobra.Command, args []string) error {
	doc := args[0]
	text, err := readText(c)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	res, err := e.svc.RecordEdit(c.Context(), doc, text)
	l := log.Event("revisions:record", "record").Author(cmd.Author()).Document(doc)
	if res.Revision.ID != 0 {
		l.Outcome(res.Outcome.String()).Revision(res.Revision.ID).Pruned(res.Pruned)
	}
	l.Write(err)

	if err != nil && res.Revision.ID == 0 {
		return cmd.PrintJSONError(fmt.Errorf("record %q: %w", doc, err))
	}

	if cmd.JSON() {
		o := recordOutput{Outcome: res.Outcome, Revision: res.Revision.ToJSON(false), Pruned: res.Pruned}
		if err != nil {
			o.Warning = err.Error()
		}
		return cmd.PrintJSON(o)
	}

	w := cmd.Out()
	switch res.Outcome {
	case revision.Unchanged:
		fmt.Fprintf(w, "%s: unchanged\n", doc)
	default:
		fmt.Fprintf(w, "%s: %s revision %d\n", doc, res.Outcome, res.Revision.ID)
	}
	if res.Pruned > 0 {
		fmt.Fprintf(w, "pruned %d revision(s)\n", res.Pruned)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return nil
}

func (e *Extension) newSeedCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "seed <document>",
		Short: "Create a root revision for existing text",
		Long: `Create the first revision of a document that predates noterev.
Does nothing if the document already has history.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runSeed,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read text from file instead of stdin")
	return c
}

func (e *Extension) runSeed(c *cobra.Command, args []string) error {
	doc := args[0]
	text, err := readText(c)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	created, err := e.svc.Seed(c.Context(), doc, text)
	log.Event("revisions:seed", "seed").Author(cmd.Author()).Document(doc).Detail("created", created).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("seed %q: %w", doc, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]bool{"created": created})
	}
	if created {
		fmt.Fprintf(cmd.Out(), "%s: seeded\n", doc)
	} else {
		fmt.Fprintf(cmd.Out(), "%s: already has history\n", doc)
	}
	return nil
}

// readText returns the text named by --file, or stdin.
func readText(c *cobra.Command) (string, error) {
	file, _ := c.Flags().GetString(extension.FlagFile)
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.In())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
