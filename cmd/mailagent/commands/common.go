package commands

import (
	"fmt"

	"github.com/nhle/mail-agent/internal/classify"
	"github.com/nhle/mail-agent/internal/credential"
	"github.com/nhle/mail-agent/internal/mailbox"
	"github.com/nhle/mail-agent/internal/model"
	"github.com/nhle/mail-agent/internal/reply"
)

// exportedMessage is the JSON shape used by the export and classify
// commands for offline work on a mailbox snapshot.
type exportedMessage struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m exportedMessage) toModel() model.Message {
	return model.Message{
		ID:      m.ID,
		From:    m.From,
		Subject: m.Subject,
		Body:    m.Body,
	}
}

// newClassifier builds the classifier from the filter configuration.
func newClassifier(cfg *model.AppConfig) *classify.Classifier {
	return classify.New(classify.Config{
		DenyList:           cfg.Filter.DenyList,
		DisabledCategories: cfg.Filter.DisabledCategories,
	})
}

// newMailboxClient resolves the IMAP password and builds the client.
func newMailboxClient(cfg *model.AppConfig) (*mailbox.Client, error) {
	password, err := credential.Resolve(credential.KeyIMAPPassword)
	if err != nil {
		return nil, err
	}
	return mailbox.NewClient(cfg.Mailbox, password), nil
}

// newSender resolves the SMTP password and builds the sender.
func newSender(cfg *model.AppConfig) (*mailbox.Sender, error) {
	password, err := credential.Resolve(credential.KeySMTPPassword)
	if err != nil {
		return nil, err
	}
	return mailbox.NewSender(cfg.Mailbox, password), nil
}

// newGenerator resolves the API key and prompt and builds the reply
// generator.
func newGenerator(cfg *model.AppConfig) (*reply.Generator, error) {
	apiKey, err := credential.Resolve(credential.KeyAPIKey)
	if err != nil {
		return nil, err
	}
	prompt, err := reply.LoadSystemPrompt(cfg.AI.PromptPath)
	if err != nil {
		return nil, fmt.Errorf("loading system prompt: %w", err)
	}
	return reply.New(apiKey, cfg.AI.Model, cfg.AI.MaxTokens, prompt), nil
}
