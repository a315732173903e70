package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export unread messages to a JSON file",
	Long: `Export fetches the currently unread messages and writes them to a
JSON file for offline inspection or classifier tuning with the classify
command.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "replies.json",
		"Output file path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 500,
		"Maximum number of messages to export")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := newMailboxClient(cfg)
	if err != nil {
		return err
	}

	messages, err := client.FetchUnread(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching unread messages: %w", err)
	}
	if exportLimit > 0 && len(messages) > exportLimit {
		messages = messages[:exportLimit]
	}

	records := make([]exportedMessage, 0, len(messages))
	for _, m := range messages {
		records = append(records, exportedMessage{
			ID:      m.ID,
			From:    m.From,
			Subject: m.Subject,
			Body:    m.Body,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}

	absPath, err := filepath.Abs(exportOutput)
	if err != nil {
		absPath = exportOutput
	}
	fmt.Printf("Exported %d messages to %s\n", len(records), absPath)
	return nil
}
