package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/fitmatch/internal/tuning"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the built-in weight profiles",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s version: %s\n", app, version)
		for _, name := range tuning.Names() {
			p, err := tuning.Lookup(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(out, "  profile %s@%s\n", p.Name, p.Version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
