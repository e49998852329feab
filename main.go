package main

import (
	"os"

	"github.com/cottand/typeflow/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "typeflow [subcommand]",
	Short:        "typeflow\n a constraint-based flow and type inference engine",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.SolveCmd)
}
