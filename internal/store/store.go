// Package store persists the agent's durable state: the pending dispatch
// queue and the ledger of message ids already replied to.
package store

import (
	"context"
	"time"

	"github.com/nhle/mail-agent/internal/schedule"
)

// Store defines the persistence interface for queue entries and the sent
// ledger.
type Store interface {
	// SavePending records a freshly enqueued entry.
	SavePending(ctx context.Context, e schedule.Entry) error

	// DeletePending removes a pending entry row without touching the
	// ledger. Dispatch uses it to discard a duplicate entry for a
	// message the ledger shows as already answered.
	DeletePending(ctx context.Context, entryID string) error

	// PendingEntries returns all persisted entries in scheduled-time
	// order, for reloading the queue at startup.
	PendingEntries(ctx context.Context) ([]schedule.Entry, error)

	// CompleteSend atomically deletes the pending row and records the
	// message id in the sent ledger.
	CompleteSend(ctx context.Context, e schedule.Entry, sentAt time.Time) error

	// WasSent reports whether a reply for the message id was already
	// sent. This is the idempotence guard against the provider
	// re-surfacing an acknowledged message as unread.
	WasSent(ctx context.Context, messageID string) (bool, error)

	Close() error
}
