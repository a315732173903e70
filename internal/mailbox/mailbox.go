// Package mailbox is the thin mail-provider collaborator: it fetches
// unread messages over IMAP, sends replies over SMTP, and flags handled
// messages as read.
package mailbox

import (
	"errors"
	"fmt"
)

// AuthError indicates that authentication failed for the mailbox.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("mailbox auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
