package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mail-agent/internal/model"
	"github.com/nhle/mail-agent/internal/schedule"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// pendingRow is the database shape of a queue entry.
type pendingRow struct {
	ID           string    `db:"id"`
	MessageID    string    `db:"message_id"`
	Sender       string    `db:"sender"`
	Subject      string    `db:"subject"`
	Body         string    `db:"body"`
	RFCMessageID string    `db:"rfc_message_id"`
	MessageDate  time.Time `db:"message_date"`
	ScheduledAt  time.Time `db:"scheduled_at"`
}

func (r pendingRow) toEntry() schedule.Entry {
	return schedule.Entry{
		ID:          r.ID,
		ScheduledAt: r.ScheduledAt,
		Message: model.Message{
			ID:           r.MessageID,
			From:         r.Sender,
			Subject:      r.Subject,
			Body:         r.Body,
			RFCMessageID: r.RFCMessageID,
			Date:         r.MessageDate,
		},
	}
}

// SavePending records a freshly enqueued entry.
func (s *SQLiteStore) SavePending(ctx context.Context, e schedule.Entry) error {
	const query = `
		INSERT OR IGNORE INTO pending_replies (
			id, message_id, sender, subject, body,
			rfc_message_id, message_date, scheduled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Message.ID, e.Message.From, e.Message.Subject, e.Message.Body,
		e.Message.RFCMessageID, e.Message.Date, e.ScheduledAt,
	)
	if err != nil {
		return fmt.Errorf("saving pending entry %s: %w", e.ID, err)
	}
	return nil
}

// DeletePending removes a pending entry row.
func (s *SQLiteStore) DeletePending(ctx context.Context, entryID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM pending_replies WHERE id = ?", entryID)
	if err != nil {
		return fmt.Errorf("deleting pending entry %s: %w", entryID, err)
	}
	return nil
}

// PendingEntries returns all persisted entries in scheduled-time order.
func (s *SQLiteStore) PendingEntries(ctx context.Context) ([]schedule.Entry, error) {
	const query = `
		SELECT id, message_id, sender, subject, body,
		       rfc_message_id, message_date, scheduled_at
		FROM pending_replies
		ORDER BY scheduled_at ASC`

	var rows []pendingRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("loading pending entries: %w", err)
	}

	entries := make([]schedule.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntry())
	}
	return entries, nil
}

// CompleteSend atomically deletes the pending row and records the message
// id in the sent ledger.
func (s *SQLiteStore) CompleteSend(ctx context.Context, e schedule.Entry, sentAt time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM pending_replies WHERE id = ?", e.ID); err != nil {
		return fmt.Errorf("deleting pending entry %s: %w", e.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO sent_ledger (message_id, sent_at) VALUES (?, ?)",
		e.Message.ID, sentAt); err != nil {
		return fmt.Errorf("recording sent message %s: %w", e.Message.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing send completion: %w", err)
	}
	return nil
}

// WasSent reports whether a reply for the message id was already sent.
func (s *SQLiteStore) WasSent(ctx context.Context, messageID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM sent_ledger WHERE message_id = ?", messageID)
	if err != nil {
		return false, fmt.Errorf("checking sent ledger for %s: %w", messageID, err)
	}
	return count > 0, nil
}
