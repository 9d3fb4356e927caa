package cmd

import (
	"github.com/Icontee/wake/logging"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used for command-level reporting before a run-scoped logger exists.
var cmdLogger = logging.GlobalLogger.NewSubLogger("module", "cmd")

var rootCmd = &cobra.Command{
	Use:   "wake",
	Short: "A typed binding generator for compiled Solidity projects",
	Long:  "wake generates typed Go bindings and lookup indexes from a compiled Solidity build",
}

func Execute() error {
	return rootCmd.Execute()
}
