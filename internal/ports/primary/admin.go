package primary

import "context"

// ServerConfig represents a server's configuration at the port boundary.
type ServerConfig struct {
	ServerID         string
	ArchiveChannelID string
	QueueChannelIDs  []string
	ManagerRoleIDs   []string
}

// AdminService defines the primary port for configuration administration.
// It is driven both by prefix commands in chat and by the operator CLI; it
// never touches question state directly.
type AdminService interface {
	// HandleCommand parses and executes a prefix command carried by a chat
	// message. Returns true if the message was a command (even a failed one).
	HandleCommand(ctx context.Context, ev MessageCreated) (bool, error)

	// GetConfig returns the server's configuration, empty if never set.
	GetConfig(ctx context.Context, serverID string) (*ServerConfig, error)

	// SetArchiveChannel sets the channel resolved questions are archived to.
	SetArchiveChannel(ctx context.Context, serverID, channelID string) error

	// SetQueueChannels replaces the set of channels treated as queues.
	SetQueueChannels(ctx context.Context, serverID string, channelIDs []string) error

	// SetManagerRoles replaces the set of roles allowed to manage queues.
	SetManagerRoles(ctx context.Context, serverID string, roleIDs []string) error

	// ResetConfig deletes the server's configuration entirely.
	ResetConfig(ctx context.Context, serverID string) error
}
