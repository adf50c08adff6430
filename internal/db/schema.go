package db

// SchemaSQL is the complete schema for fresh queuebot installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All repository
// tests load it via GetSchemaSQL() so that test schemas cannot drift from the
// schema the bot actually runs against: if repository code references a
// column that does not exist here, tests fail immediately with
// "no such column".
const SchemaSQL = `
-- Per-server configuration. Channel and role sets are stored as
-- space-separated ID lists, the same encoding the platform hands us in
-- mention form.
CREATE TABLE IF NOT EXISTS servers (
	server_id TEXT PRIMARY KEY,
	archive_channel_id TEXT,
	queue_channel_ids TEXT,
	manager_role_ids TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Claims: one row per live claimed question, keyed by the originating
-- message. The primary key is what makes TryCreateClaim an atomic
-- create-if-absent.
CREATE TABLE IF NOT EXISTS claims (
	message_id TEXT PRIMARY KEY,
	claimant_id TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema for use in tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
