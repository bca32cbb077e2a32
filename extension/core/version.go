// version.go implements the version command.

package core

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uttaparsa/notes-api/cmd"
	"github.com/uttaparsa/notes-api/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, git commit, Go version, and platform.`,
		Run: func(_ *cobra.Command, _ []string) {
			info := version.Get()
			if cmd.JSON() {
				_ = cmd.PrintJSON(info)
				return
			}
			fmt.Fprint(cmd.Out(), info.String())
		},
	}
}
