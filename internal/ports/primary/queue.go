// Package primary defines the primary ports (driving interfaces) for the
// application. Platform runtimes deliver events through these interfaces.
package primary

import "context"

// Marker identifies which control emoji a reaction corresponds to. The
// mapping from raw platform emoji to Marker is the gateway adapter's job.
type Marker int

const (
	// MarkerOther is any emoji that is not part of the control surface.
	MarkerOther Marker = iota

	// MarkerInbox flags a message as a waiting question; a manager reacting
	// with it claims the question.
	MarkerInbox

	// MarkerOutbox archives a claimed question (claimant or author) or opens
	// a pending confirmation (other managers).
	MarkerOutbox

	// MarkerConfirm confirms the archive of a question claimed by someone else.
	MarkerConfirm

	// MarkerReject deletes a question without archiving it.
	MarkerReject
)

// String returns a short name for logging.
func (m Marker) String() string {
	switch m {
	case MarkerInbox:
		return "inbox"
	case MarkerOutbox:
		return "outbox"
	case MarkerConfirm:
		return "confirm"
	case MarkerReject:
		return "reject"
	default:
		return "other"
	}
}

// MessageCreated is an inbound message event.
type MessageCreated struct {
	ID               string
	AuthorID         string
	ChannelID        string
	GuildID          string
	Content          string
	IsReply          bool
	MentionedUserIDs []string
}

// ReactionAdded is an inbound reaction event. Emoji carries the raw
// platform emoji so non-marker reactions can still be removed.
type ReactionAdded struct {
	MessageID string
	ChannelID string
	GuildID   string
	ActorID   string
	Marker    Marker
	Emoji     string
}

// QueueService defines the primary port for queue event handling.
type QueueService interface {
	// OnMessageCreated decides whether a new message becomes a queued
	// question and attaches the inbox marker if so.
	OnMessageCreated(ctx context.Context, ev MessageCreated) error

	// OnReactionAdded drives the claim/confirm/reject/archive state machine.
	OnReactionAdded(ctx context.Context, ev ReactionAdded) error

	// PurgeStaleClaims deletes all claim rows. Called once at process start
	// so claims from a previous session cannot block fresh questions.
	PurgeStaleClaims(ctx context.Context) (int, error)
}
