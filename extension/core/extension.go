// Package core provides the core extension for noterev.
// It registers commands: init, config, serve, log, version.
package core

import (
	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/extension"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Commands returns the repository management commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newLogCmd(),
		newVersionCmd(),
	}
}

// NoStoreCommands returns commands that manage their own lifecycle.
// serve opens a workspace with metrics attached; log only reads the audit
// database.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "log"}
}
