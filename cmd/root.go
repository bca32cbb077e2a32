// root.go defines the root command and CLI execution entry point.
//
// PersistentPreRunE opens the workspace lazily: only commands that need the
// repository trigger it, so init, config and version work before one exists.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "noterev",
	Short: "Revision history for notes",
	Long: `Records the edit history of notes as a chain of revisions.

Edits arriving close together are merged into one revision, and old
revisions are collapsed so each note keeps a bounded history.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if author == "" {
			author = detectAuthor()
		}

		if !noStoreCommands[topLevelCmdName(cmd)] {
			if err := initExtensions(); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return err
			}
		}
		return nil
	},
}

// topLevelCmdName returns the name of the direct child of root that cmd
// belongs to. For "noterev config log.level", returns "config".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle: .env
// loading, audit logging, command execution and closing the workspace.
// Exit code 1 indicates error.
func Execute() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	registerExtensions()
	err := rootCmd.Execute()

	if extWorkspace != nil {
		if closeErr := extWorkspace.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing repository: %v\n", closeErr)
		}
	}

	if err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}
