// Package lowvalue holds the pre-claim dismiss filter. Some messages in a
// queue channel are not questions at all, just misdirected pings like
// "voice channel 3"; managers can resolve those with a thumbs-up instead of
// a full claim/archive cycle. The filter is an interface so the heuristic
// can be swapped or disabled without touching the state machine.
package lowvalue

import "regexp"

// Filter decides whether a message should be dismissed instead of claimed.
type Filter interface {
	// ShouldDismiss reports whether the message content is low-value.
	ShouldDismiss(content string) bool
}

// maxDismissLen keeps the shortcut away from real questions that happen to
// mention a voice channel.
const maxDismissLen = 40

var voiceChannelPattern = regexp.MustCompile(`(?i)^\W*voice\s*(channel|chat)?\s*#?\d+\W*$`)

// VoiceChannelFilter dismisses short messages that only name a voice
// channel number.
type VoiceChannelFilter struct{}

// NewVoiceChannelFilter returns the default dismiss filter.
func NewVoiceChannelFilter() *VoiceChannelFilter {
	return &VoiceChannelFilter{}
}

// ShouldDismiss implements Filter.
func (f *VoiceChannelFilter) ShouldDismiss(content string) bool {
	if len(content) > maxDismissLen {
		return false
	}
	return voiceChannelPattern.MatchString(content)
}

// Disabled never dismisses anything.
type Disabled struct{}

// ShouldDismiss implements Filter.
func (Disabled) ShouldDismiss(string) bool { return false }
