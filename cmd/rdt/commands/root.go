package commands

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for the rdt client
var RootCmd = &cobra.Command{
	Use:              "rdt",
	Short:            "request proxy client",
	TraverseChildren: true,
}

func init() {
	RootCmd.AddCommand(
		NewRunCmd(),
		VersionCmd,
	)
}
