package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notifly",
		Short: "Property-change notification toolkit",
		Long: `Notifly is a property-change notification core for Go.

It provides observable entities with paired before/after change
notifications, panic-isolating multi-listener dispatch, and a
thread-synchronized observable list. This CLI demonstrates the list by
mirroring a directory tree into one and printing its structural changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		watchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("notifly %s (%s)\n", version, commit)
		},
	}
}
