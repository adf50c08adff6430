// Package chain decides whether a new message continues the most recent
// still-open question by the same author, in which case it must not open a
// fresh queue entry.
package chain

// Message is the minimal view of a channel message the decision needs.
// FromManager and FromBot are resolved by the caller so the decision itself
// stays pure.
type Message struct {
	ID          string
	AuthorID    string
	FromBot     bool
	FromManager bool
}

// IsContinuation reports whether the message identified by newID, authored
// by authorID, continues the preceding question by the same author.
//
// The window is scanned newest first. The new message itself, the bot, and
// managers are skipped: managers may interject without breaking a chain.
// The first remaining message decides - same author means continuation, any
// other author breaks the chain. An exhausted window is not a continuation:
// a gap that long likely means the earlier question was already handled, so
// we fail open toward a fresh queue entry.
func IsContinuation(newID, authorID string, window []Message) bool {
	for _, m := range window {
		if m.ID == newID || m.FromBot || m.FromManager {
			continue
		}
		return m.AuthorID == authorID
	}
	return false
}
