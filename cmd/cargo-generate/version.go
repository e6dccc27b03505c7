package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nwpistols/cargo-generate/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cargo-generate",
	Run: func(_ *cobra.Command, _ []string) {
		info := version.Get()
		fmt.Printf("cargo-generate version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
