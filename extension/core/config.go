// config.go implements "noterev config".
//
// Local config (.noterev/config.yaml) takes precedence over global
// (~/.noterev/config.yaml). Writes go where reads come from; --local
// forces the local file even before it exists.

package core

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/log"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  noterev config                              # show config
  noterev config revisions.max_revisions      # show one value
  noterev config revisions.min_interval 5m    # set a value

Keys:
  author.name, author.email
  revisions.min_interval   edits closer than this amend the latest revision (15m)
  revisions.max_revisions  revisions kept per document, 2..10000 (20)
  store.backend            sqlite or badger (sqlite)
  limits.max_content       largest recorded text in bytes (100MB)
  limits.max_document_id   longest document ID (256)
  log.level                debug, info, warn or error (warn)

NOTEREV_* environment variables, also read from a .env file, override
the files for a single run.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}
	c.Flags().Bool(extension.FlagLocal, false, "Use local config (.noterev/config.yaml)")
	return c
}

func runConfig(c *cobra.Command, args []string) error {
	forceLocal, _ := c.Flags().GetBool(extension.FlagLocal)

	scope := config.ScopeGlobal
	if forceLocal || fileExists(config.LocalPath()) {
		scope = config.ScopeLocal
	}
	cfg, err := config.LoadScope(scope)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if cfg.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		all := cfg.All()
		log.Event("core:config", "list").Author(cmd.Author()).Write(nil)
		if cmd.JSON() {
			return cmd.PrintJSON(all)
		}
		keys := config.ValidKeys()
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.Out(), "%s: %s\n", k, all[k])
		}

	case 1:
		v, err := cfg.Get(args[0])
		log.Event("core:config", "get").Author(cmd.Author()).Detail("key", args[0]).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(cmd.Out(), v)

	case 2:
		if err := cfg.Set(args[0], args[1]); err != nil {
			log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}
		saveErr := cfg.Save()
		log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Detail("scope", scopeName).Write(saveErr)
		if saveErr != nil {
			return cmd.PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{"key": args[0], "value": args[1], "scope": scopeName})
		}
		fmt.Fprintf(cmd.Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
