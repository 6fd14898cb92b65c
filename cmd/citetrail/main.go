// Package main provides the entry point for the citetrail CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salamanca-digital/citetrail/cmd/citetrail/commands"
	"github.com/salamanca-digital/citetrail/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "citetrail",
		Short: "Citetrail - TEI scholarly-edition transformation pipeline",
		Long: `Citetrail indexes, resolves, and renders TEI scholarly editions into
citable, browsable fragments.

Commands:
  transform   Run the transformation pipeline over a single TEI document
  serve       Run the HTTP surface for asynchronous transform requests`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a config.yaml file")

	rootCmd.AddCommand(commands.NewTransformCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "citetrail %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
