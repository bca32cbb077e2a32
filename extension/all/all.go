// Package all imports all built-in noterev extensions.
// Import this package to register all built-in commands.
package all

import (
	// Each registers itself via init()
	_ "github.com/uttaparsa/notes-api/extension/core"
	_ "github.com/uttaparsa/notes-api/extension/revisions"
)
