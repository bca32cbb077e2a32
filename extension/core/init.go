// init.go implements "noterev init".
//
// Like git init, it creates repository structure only. Settings, including
// which backend to use when both stores exist, live in "noterev config".

package core

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/repo"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialise a noterev repository",
		Long: `Creates .noterev/ with the document catalog and a revision store.

  noterev init                    # SQLite store in ./.noterev/revisions.db
  noterev init --backend badger   # BadgerDB store in ./.noterev/revisions.badger/
  noterev init --local            # keep the stores out of git

Use --force to replace an existing store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	c.Flags().String(extension.FlagBackend, config.DefaultBackend, "Revision store backend: sqlite or badger")
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Add the stores to .noterev/.gitignore")
	return c
}

func runInit(c *cobra.Command, args []string) error {
	backend, _ := c.Flags().GetString(extension.FlagBackend)
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}

	var err error
	if backend != config.BackendSQLite && backend != config.BackendBadger {
		err = fmt.Errorf("%w: backend must be sqlite or badger, got %q", config.ErrInvalidValue, backend)
	} else {
		err = repo.Init(cmd.Force(), backend, local, dir)
	}

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("backend", backend).
		Detail("local", local).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := filepath.Join(dir, repo.Dir)
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"dir": loc, "backend": backend})
	}
	fmt.Fprintf(cmd.Out(), "Initialised noterev repository in %s (%s)\n", loc, backend)
	return nil
}
