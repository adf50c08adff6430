// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import "context"

// ServerConfigRecord represents a server's configuration as stored in
// persistence. Absent configuration is a zero-value record, not an error.
type ServerConfigRecord struct {
	ServerID         string
	ArchiveChannelID string
	QueueChannelIDs  []string
	ManagerRoleIDs   []string
}

// ServerConfigRepository defines the secondary port for server configuration
// persistence. Writes replace whole fields so readers never observe a
// partially updated record.
type ServerConfigRepository interface {
	// Get retrieves a server's configuration. A server with no stored row
	// yields an empty record and no error.
	Get(ctx context.Context, serverID string) (*ServerConfigRecord, error)

	// SetArchiveChannel upserts the archive channel for a server.
	SetArchiveChannel(ctx context.Context, serverID, channelID string) error

	// SetQueueChannels upserts the queue channel set for a server.
	SetQueueChannels(ctx context.Context, serverID string, channelIDs []string) error

	// SetManagerRoles upserts the manager role set for a server.
	SetManagerRoles(ctx context.Context, serverID string, roleIDs []string) error

	// Reset deletes the server's configuration row.
	Reset(ctx context.Context, serverID string) error
}

// ClaimRecord represents a claim row.
type ClaimRecord struct {
	MessageID  string
	ClaimantID string
	CreatedAt  string
}

// ClaimRepository defines the secondary port for claim persistence. The
// claim row is the only server-wide mutable state in the core, so creation
// must be an atomic create-if-absent.
type ClaimRepository interface {
	// TryCreate inserts a claim if none exists for the message. Returns true
	// iff this call created the row; false means a concurrent claim won.
	TryCreate(ctx context.Context, messageID, claimantID string) (bool, error)

	// Get returns the claimant for a message, ok=false if unclaimed.
	Get(ctx context.Context, messageID string) (claimantID string, ok bool, err error)

	// Delete removes a claim. Deleting a missing claim is not an error.
	Delete(ctx context.Context, messageID string) error

	// DeleteAll removes every claim and reports how many were removed.
	// Used once at process startup to clear stale state.
	DeleteAll(ctx context.Context) (int64, error)

	// List returns all live claims, oldest first.
	List(ctx context.Context) ([]*ClaimRecord, error)
}
