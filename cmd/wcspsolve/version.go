package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags; "dev" otherwise, mirroring
// the version-stamping convention used across the jinterlante1206-AleutianLocal
// cmd tree's own version subcommands.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print wcspsolve's version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("wcspsolve", version)
	},
}
