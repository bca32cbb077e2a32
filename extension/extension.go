// Package extension provides the command plugin architecture for noterev.
// Extensions group related CLI commands and register at init time; the
// root command wires them up and injects the opened workspace.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension defines the contract for noterev extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command
}

// Initializable extensions receive the opened workspace before any of
// their commands run.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless extensions name commands that must run without an opened
// repository: init runs before one exists, serve opens its own.
type Storeless interface {
	NoStoreCommands() []string
}
