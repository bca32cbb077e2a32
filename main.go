package main

import (
	"github.com/uttaparsa/notes-api/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/uttaparsa/notes-api/extension/all"
)

func main() {
	cmd.Execute()
}
