// init_extensions.go opens the workspace and wires it into extensions.
//
// Extensions register during init() but are not initialised until the
// first command that needs the repository runs. The workspace is opened
// once and shared by every extension through the Context.

package cmd

import (
	"sync"

	"github.com/uttaparsa/notes-api/extension"
	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/workspace"
)

// noStoreCommands lists commands that bypass workspace initialisation.
var noStoreCommands map[string]bool

// buildNoStoreCommands combines the bootstrap commands with those declared
// by Storeless extensions.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":       true,
		"config":     true,
		"version":    true,
		"help":       true,
		"completion": true,
	}
	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}
	return cmds
}

var (
	extWorkspace *workspace.Workspace
	initOnce     sync.Once
	initErr      error
)

// initExtensions opens the workspace and injects it into every
// Initializable extension.
func initExtensions() error {
	initOnce.Do(func() {
		ws, err := workspace.Open(workspace.Options{Dir: Dir()})
		if err != nil {
			initErr = err
			return
		}
		extWorkspace = ws

		log.SetProject(ws.Dir())

		ctx := extension.NewContext(ws)
		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(ctx); err != nil {
					initErr = err
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}
		noStoreCommands = buildNoStoreCommands()
	})
}
