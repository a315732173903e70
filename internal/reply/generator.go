// Package reply drafts reply bodies via the Claude Messages API.
package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	defaultAPIURL    = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	requestTimeout   = 60 * time.Second
)

// Generator is the reply generation service client. It sends the inbound
// email body together with a persona system prompt and returns the
// drafted reply text.
type Generator struct {
	apiKey       string
	model        string
	maxTokens    int
	systemPrompt string
	apiURL       string
	client       *http.Client
}

// Option customizes a Generator.
type Option func(*Generator)

// WithAPIURL overrides the API endpoint, for tests and proxies.
func WithAPIURL(url string) Option {
	return func(g *Generator) { g.apiURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

// New creates a reply generator with the given configuration.
func New(apiKey, modelName string, maxTokens int, systemPrompt string, opts ...Option) *Generator {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	g := &Generator{
		apiKey:       apiKey,
		model:        modelName,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
		apiURL:       defaultAPIURL,
		client:       &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiResponse struct {
	Content []apiContentBlock `json:"content"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateReply drafts a reply to the given email body. Errors are
// transient collaborator failures: the caller skips the item and retries
// on a later tick.
func (g *Generator) GenerateReply(ctx context.Context, emailBody string) (string, error) {
	reqBody := apiRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    g.systemPrompt,
		Messages: []apiMessage{
			{Role: "user", Content: emailBody},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, g.apiURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generation API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var parts []string
	for _, block := range result.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	draft := strings.TrimSpace(strings.Join(parts, ""))
	if draft == "" {
		return "", fmt.Errorf("generation API returned no text content")
	}
	return draft, nil
}
