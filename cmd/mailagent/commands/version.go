package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mailagent version",
	Run: func(*cobra.Command, []string) {
		fmt.Printf("mailagent %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
