package credential

import (
	"fmt"
	"os"
)

// Well-known credential keys.
const (
	KeyIMAPPassword = "imap-password"
	KeySMTPPassword = "smtp-password"
	KeyAPIKey       = "anthropic-api-key"
)

// envNames maps credential keys to their environment variable fallbacks,
// for headless servers without a keyring backend.
var envNames = map[string]string{
	KeyIMAPPassword: "MAILAGENT_IMAP_PASSWORD",
	KeySMTPPassword: "MAILAGENT_SMTP_PASSWORD",
	KeyAPIKey:       "MAILAGENT_API_KEY",
}

// Resolve returns the credential for key, preferring the environment
// variable over the keyring so deployments can inject secrets without a
// keyring backend. A credential that resolves nowhere is an error; the
// caller treats it as fatal at startup.
func Resolve(key string) (string, error) {
	if env := envNames[key]; env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}

	v, err := Get(key)
	if err != nil {
		return "", fmt.Errorf("credential %q not found in environment or keyring: %w", key, err)
	}
	return v, nil
}
