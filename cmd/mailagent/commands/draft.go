package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate reply drafts for unread messages without sending",
	Long: `Draft fetches unread messages, classifies them, and prints a
generated reply draft for each message that would be answered. Filtered
messages are listed with their reason. Nothing is sent or marked read.`,
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, _ []string) error {
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
	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	classifier := newClassifier(cfg)

	messages, err := client.FetchUnread(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching unread messages: %w", err)
	}

	fmt.Printf("Generating drafts for %d unread message(s)\n\n", len(messages))
	for _, msg := range messages {
		fmt.Println("──────────────────────────────────────")
		fmt.Printf("From:    %s\n", msg.From)
		fmt.Printf("Subject: Re: %s\n", msg.Subject)

		decision := classifier.Classify(msg)
		if !decision.Accept {
			fmt.Printf("Filtered: %s\n\n", decision.Reason)
			continue
		}

		draft, err := generator.GenerateReply(cmd.Context(), msg.Body)
		if err != nil {
			fmt.Printf("Draft failed: %v\n\n", err)
			continue
		}
		fmt.Printf("Draft:\n%s\n\n", draft)
	}

	return nil
}
