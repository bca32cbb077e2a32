// log.go implements "noterev log", listing recent audit entries for the
// current repository.

package core

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/format"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/repo"
)

func newLogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		Long:  `Show the latest commands and MCP calls recorded against this repository.`,
		Args:  cobra.NoArgs,
		RunE:  runLog,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Number of entries")
	return c
}

func runLog(c *cobra.Command, _ []string) error {
	limit, _ := c.Flags().GetInt(extension.FlagLimit)
	if limit < 1 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be positive, got %d", limit))
	}

	d := cmd.Dir()
	if d == "" {
		var err error
		if d, err = repo.DiscoverDir(); err != nil {
			return cmd.PrintJSONError(err)
		}
	}
	log.SetProject(d)

	entries, err := log.Recent(limit)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("read audit log: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(entries)
	}
	format.Audit(cmd.Out(), entries)
	return nil
}
