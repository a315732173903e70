package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_replies (
	id            TEXT PRIMARY KEY,
	message_id    TEXT NOT NULL UNIQUE,
	sender        TEXT NOT NULL DEFAULT '',
	subject       TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	rfc_message_id TEXT NOT NULL DEFAULT '',
	message_date  DATETIME,
	scheduled_at  DATETIME NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sent_ledger (
	message_id TEXT PRIMARY KEY,
	sent_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pending_scheduled_at ON pending_replies(scheduled_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
