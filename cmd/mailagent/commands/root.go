// Package commands implements the mailagent CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/nhle/mail-agent/internal/model"
)

var (
	// configPath is the path to the YAML configuration file.
	configPath string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "mailagent",
	Short: "Unattended email auto-responder",
	Long: `mailagent watches a mailbox for unread messages, filters out mail
that does not deserve a personal reply (out-of-office notices, automated
responses, unsubscribe requests, and the like), and answers genuine
questions with generated replies sent after a randomized human-like
delay inside a daily time window.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "",
		"Path to config file (default: ~/.config/mailagent/config.yaml)",
	)
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig() (*model.AppConfig, error) {
	path := configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	return model.LoadConfig(path)
}
