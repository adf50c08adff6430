package secondary

import (
	"context"
	"time"
)

// Control emoji. The gateway adapter translates between these and whatever
// the platform calls them.
const (
	EmojiInbox    = "\U0001F4E5" // 📥
	EmojiOutbox   = "\U0001F4E4" // 📤
	EmojiConfirm  = "✅"     // ✅
	EmojiReject   = "❌"     // ❌
	EmojiThumbsUp = "\U0001F44D" // 👍
)

// ChannelMessage is a lightweight view of a platform message, carrying just
// what the history heuristics need.
type ChannelMessage struct {
	ID                  string
	AuthorID            string
	AuthorIsBot         bool
	Content             string
	IsReply             bool
	ReplyTargetAuthorID string
	MentionedUserIDs    []string
	Timestamp           time.Time
}

// EmbedField is one titled section of an embed.
type EmbedField struct {
	Name  string
	Value string
}

// Embed is a platform-agnostic rich message.
type Embed struct {
	Title     string
	Color     int
	Timestamp time.Time
	Fields    []EmbedField
}

// ChatGateway defines the secondary port for the chat platform. Transport
// failures are the adapter's concern; the core treats every command as
// at-most-once and re-derives state from reactions and claim rows on the
// next event.
type ChatGateway interface {
	// BotUserID returns the bot's own user ID, used to skip self-authored
	// messages and reactions.
	BotUserID() string

	// AddReaction adds the bot's reaction to a message.
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	// RemoveReaction removes one user's reaction from a message. An empty
	// userID removes the bot's own reaction.
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error

	// ClearReactions removes all reactions from a message.
	ClearReactions(ctx context.Context, channelID, messageID string) error

	// GetMessage fetches a single message.
	GetMessage(ctx context.Context, channelID, messageID string) (*ChannelMessage, error)

	// SendMessage posts a plain message to a channel.
	SendMessage(ctx context.Context, channelID, content string) error

	// SendReply posts a reply to a message. A positive deleteAfter asks the
	// adapter to delete the reply after that duration.
	SendReply(ctx context.Context, channelID, messageID, content string, deleteAfter time.Duration) error

	// SendEmbed posts an embed to a channel.
	SendEmbed(ctx context.Context, channelID string, embed *Embed) error

	// DeleteMessage deletes a message from a channel.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// RecentHistory returns up to limit messages from the channel, newest
	// first, including the most recent message.
	RecentHistory(ctx context.Context, channelID string, limit int) ([]*ChannelMessage, error)

	// HistoryAfter returns up to limit messages posted after the given
	// message, oldest first.
	HistoryAfter(ctx context.Context, channelID, afterMessageID string, limit int) ([]*ChannelMessage, error)

	// MemberRoles returns the role IDs held by a guild member.
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)

	// MemberDisplayName returns the member's display name, falling back to
	// their username.
	MemberDisplayName(ctx context.Context, guildID, userID string) (string, error)

	// IsAdministrator reports whether the member holds the platform's
	// administrator permission.
	IsAdministrator(ctx context.Context, guildID, userID string) (bool, error)

	// CanPost reports whether the bot may post in the channel.
	CanPost(ctx context.Context, channelID string) (bool, error)
}

// Clock defines the secondary port for time. The ephemeral UI windows
// (pending confirmation, dismiss delay) sleep through it so tests can run
// without waiting.
type Clock interface {
	// Sleep pauses for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}
