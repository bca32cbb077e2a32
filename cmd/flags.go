// flags.go defines global CLI flags and accessors for shared state.
//
// Extensions read flag values through the exported accessors rather than
// the variables.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/internal/config"
)

var validOutputFormats = []string{"json"}

var (
	output string
	author string
	force  bool
	dir    string
)

// out is the output writer for commands. Tests replace it to capture output.
var out io.Writer = os.Stdout

// in is the input reader for commands that take text on stdin.
var in io.Reader = os.Stdin

// Out returns the output writer.
func Out() io.Writer { return out }

// In returns the input reader.
func In() io.Reader { return in }

// Output returns the output format flag value.
func Output() string { return output }

// Author returns the author recorded in the audit log.
func Author() string { return author }

// Force returns the force flag value.
func Force() bool { return force }

// Dir returns the explicit .noterev directory if set.
// Priority: --dir flag > NOTEREV_DIR env var > empty (use discovery).
func Dir() string {
	if dir != "" {
		return dir
	}
	return os.Getenv("NOTEREV_DIR")
}

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// SetIn sets the input reader (for testing).
func SetIn(r io.Reader) { in = r }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON writes v as JSON to the output writer. A no-op unless JSON
// output is requested.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints err as a JSON object when JSON output is requested
// and returns nil so cobra does not print it again. Otherwise it returns err.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

// detectAuthor returns the configured author name, or "" when none is set.
func detectAuthor() string {
	if cfg, err := config.Load(); err == nil && cfg.Author.Name != "" {
		return cfg.Author.Name
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVarP(&author, "author", "a", "", "Author recorded in the audit log")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Overwrite existing state")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", ".noterev directory (skip discovery)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
