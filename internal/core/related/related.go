// Package related selects the messages that belong to an archived question:
// the author's follow-ups, replies addressed to the author, and messages
// mentioning the author.
package related

import "github.com/example/queuebot/internal/ports/secondary"

// IsRelated reports whether a message belongs to the question authored by
// originAuthorID. Bot messages are never related.
func IsRelated(originAuthorID string, m *secondary.ChannelMessage) bool {
	if m.AuthorIsBot {
		return false
	}
	if m.AuthorID == originAuthorID {
		return true
	}
	if m.IsReply && m.ReplyTargetAuthorID == originAuthorID {
		return true
	}
	for _, id := range m.MentionedUserIDs {
		if id == originAuthorID {
			return true
		}
	}
	return false
}

// Collect walks a forward history window (oldest first) and gathers the
// messages related to the question, preserving order. Bot and manager
// interjections are skipped; the first unrelated message from anyone else
// ends the scan - past that point the channel has moved on, and later
// messages from the author belong to a new question.
func Collect(originAuthorID string, history []*secondary.ChannelMessage, isManager func(authorID string) bool) []*secondary.ChannelMessage {
	var out []*secondary.ChannelMessage
	for _, m := range history {
		if IsRelated(originAuthorID, m) {
			out = append(out, m)
			continue
		}
		if m.AuthorIsBot || isManager(m.AuthorID) {
			continue
		}
		break
	}
	return out
}
