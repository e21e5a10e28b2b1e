//go:build !(js || wasm)

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cottand/ilec/cmd"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "ilec [subcommand]",
	Short:        "ilec compiles modules of a small functional language into a tagged IR",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.BuildCmd)
	rootCmd.AddCommand(cmd.RunCmd)
}
