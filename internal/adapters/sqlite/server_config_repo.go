// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/queuebot/internal/ports/secondary"
)

// ServerConfigRepository implements secondary.ServerConfigRepository with SQLite.
type ServerConfigRepository struct {
	db *sql.DB
}

// NewServerConfigRepository creates a new SQLite server config repository.
func NewServerConfigRepository(db *sql.DB) *ServerConfigRepository {
	return &ServerConfigRepository{db: db}
}

// Get retrieves a server's configuration. A server without a row yields an
// empty record, not an error: unconfigured is a valid state.
func (r *ServerConfigRepository) Get(ctx context.Context, serverID string) (*secondary.ServerConfigRecord, error) {
	var (
		archiveID sql.NullString
		queues    sql.NullString
		roles     sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT archive_channel_id, queue_channel_ids, manager_role_ids FROM servers WHERE server_id = ?",
		serverID,
	).Scan(&archiveID, &queues, &roles)

	record := &secondary.ServerConfigRecord{ServerID: serverID}
	if err == sql.ErrNoRows {
		return record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server config: %w", err)
	}

	record.ArchiveChannelID = archiveID.String
	record.QueueChannelIDs = splitIDs(queues.String)
	record.ManagerRoleIDs = splitIDs(roles.String)

	return record, nil
}

// SetArchiveChannel upserts the archive channel for a server.
func (r *ServerConfigRepository) SetArchiveChannel(ctx context.Context, serverID, channelID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO servers (server_id, archive_channel_id) VALUES (?, ?)
		ON CONFLICT(server_id) DO UPDATE SET archive_channel_id = excluded.archive_channel_id, updated_at = CURRENT_TIMESTAMP`,
		serverID, channelID,
	)
	if err != nil {
		return fmt.Errorf("failed to set archive channel: %w", err)
	}
	return nil
}

// SetQueueChannels upserts the queue channel set for a server.
func (r *ServerConfigRepository) SetQueueChannels(ctx context.Context, serverID string, channelIDs []string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO servers (server_id, queue_channel_ids) VALUES (?, ?)
		ON CONFLICT(server_id) DO UPDATE SET queue_channel_ids = excluded.queue_channel_ids, updated_at = CURRENT_TIMESTAMP`,
		serverID, joinIDs(channelIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to set queue channels: %w", err)
	}
	return nil
}

// SetManagerRoles upserts the manager role set for a server.
func (r *ServerConfigRepository) SetManagerRoles(ctx context.Context, serverID string, roleIDs []string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO servers (server_id, manager_role_ids) VALUES (?, ?)
		ON CONFLICT(server_id) DO UPDATE SET manager_role_ids = excluded.manager_role_ids, updated_at = CURRENT_TIMESTAMP`,
		serverID, joinIDs(roleIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to set manager roles: %w", err)
	}
	return nil
}

// Reset deletes the server's configuration row. Resetting an unconfigured
// server is a no-op.
func (r *ServerConfigRepository) Reset(ctx context.Context, serverID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM servers WHERE server_id = ?", serverID)
	if err != nil {
		return fmt.Errorf("failed to reset server config: %w", err)
	}
	return nil
}

// splitIDs decodes the space-separated ID list used in storage.
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// joinIDs encodes an ID list for storage.
func joinIDs(ids []string) string {
	return strings.Join(ids, " ")
}

// Ensure ServerConfigRepository implements the interface
var _ secondary.ServerConfigRepository = (*ServerConfigRepository)(nil)
