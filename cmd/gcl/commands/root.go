package commands

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for GCL
var RootCmd = &cobra.Command{
	Use:              "gcl",
	Short:            "quorum-finalized append-only ledger",
	TraverseChildren: true,
}
