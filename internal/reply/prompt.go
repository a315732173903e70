package reply

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSystemPrompt is used when no prompt template file is configured.
const DefaultSystemPrompt = `You are replying to emails on behalf of a ` +
	`busy creator. Answer genuine questions helpfully and concisely in a ` +
	`warm, personal tone. Do not promise calls, meetings, or free ` +
	`products. Sign off with a short friendly closing.`

// LoadSystemPrompt reads the prompt template from path. An empty path
// selects the built-in default.
func LoadSystemPrompt(path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt template %s: %w", path, err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt template %s is empty", path)
	}
	return prompt, nil
}
