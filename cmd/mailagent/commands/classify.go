package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var classifyInput string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify exported messages without sending anything",
	Long: `Classify loads a JSON file produced by the export command and
prints the reply/filter decision and reason for each message, with a
summary at the end. Nothing is sent or marked read; this is the tool
for tuning the filter rule set.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyInput, "input", "i", "replies.json",
		"Input file produced by the export command")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(classifyInput)
	if err != nil {
		return fmt.Errorf("reading %s: %w", classifyInput, err)
	}

	var records []exportedMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", classifyInput, err)
	}

	classifier := newClassifier(cfg)

	fmt.Println("ID\tSubject\tDecision\tReason")
	replies, filtered := 0, 0
	for i, rec := range records {
		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("<#%d>", i+1)
		}

		decision := classifier.Classify(rec.toModel())
		verdict := "Filter"
		if decision.Accept {
			verdict = "Reply"
			replies++
		} else {
			filtered++
		}

		fmt.Printf("%s\t%s\t%s\t%s\n", id, previewSubject(rec.Subject), verdict, decision.Reason)
	}

	fmt.Printf("\nTotal: %d, reply: %d, filtered: %d\n", len(records), replies, filtered)
	return nil
}

// previewSubject flattens a subject to a single line and truncates it to
// 50 runes for table output.
func previewSubject(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}
