// Package app contains the application services implementing the primary
// ports, with all external systems injected as secondary ports.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/queuebot/internal/core/chain"
	"github.com/example/queuebot/internal/core/lowvalue"
	"github.com/example/queuebot/internal/core/related"
	"github.com/example/queuebot/internal/core/roles"
	"github.com/example/queuebot/internal/ports/primary"
	"github.com/example/queuebot/internal/ports/secondary"
)

// questionState is the explicit state of a question, reconstructed at the
// top of each reaction handler from the claim row. Keeping state derivable
// from persistence rather than process memory is what makes duplicate and
// out-of-order events safe.
type questionState int

const (
	stateNew questionState = iota
	stateClaimed
)

// QueueTimings bundles the delay and scan-bound knobs.
type QueueTimings struct {
	ReplyTTL         time.Duration
	ConfirmWindow    time.Duration
	DismissDelay     time.Duration
	NotifyTTL        time.Duration
	ChainWindow      int
	ArchiveLookahead int
}

// QueueServiceImpl implements the QueueService interface.
type QueueServiceImpl struct {
	gateway secondary.ChatGateway
	configs *ConfigCache
	claims  secondary.ClaimRepository
	clock   secondary.Clock
	dismiss lowvalue.Filter
	prefix  string
	timings QueueTimings
	logger  *zap.Logger
}

// NewQueueService creates a new QueueService with injected dependencies.
func NewQueueService(
	gateway secondary.ChatGateway,
	configs *ConfigCache,
	claims secondary.ClaimRepository,
	clock secondary.Clock,
	dismiss lowvalue.Filter,
	prefix string,
	timings QueueTimings,
	logger *zap.Logger,
) *QueueServiceImpl {
	return &QueueServiceImpl{
		gateway: gateway,
		configs: configs,
		claims:  claims,
		clock:   clock,
		dismiss: dismiss,
		prefix:  prefix,
		timings: timings,
		logger:  logger,
	}
}

// OnMessageCreated decides whether a new message becomes a queued question.
// A message qualifies when it arrives in a queue channel, is authored by a
// non-manager, is not a reply, mentions no non-manager, and does not
// continue the author's preceding question.
func (s *QueueServiceImpl) OnMessageCreated(ctx context.Context, ev primary.MessageCreated) error {
	if ev.AuthorID == s.gateway.BotUserID() {
		return nil
	}
	if ev.GuildID == "" {
		return nil // direct message
	}
	if s.prefix != "" && strings.HasPrefix(ev.Content, s.prefix) {
		return nil // prefix commands are AdminService's territory
	}

	cfg, err := s.configs.Get(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	if !containsID(cfg.QueueChannelIDs, ev.ChannelID) {
		return nil
	}

	// A reply is a conversation, not a question.
	if ev.IsReply {
		return nil
	}

	isManager := s.managerChecker(ctx, ev.GuildID, cfg)

	if manager, err := isManager(ev.AuthorID); err != nil {
		return err
	} else if manager {
		return nil
	}

	// A message directed at another student is a conversation too.
	for _, id := range ev.MentionedUserIDs {
		manager, err := isManager(id)
		if err != nil {
			return err
		}
		if !manager {
			return nil
		}
	}

	continuation, err := s.isChainContinuation(ctx, ev, isManager)
	if err != nil {
		return err
	}
	if continuation {
		s.logger.Debug("suppressed chain continuation",
			zap.String("message_id", ev.ID),
			zap.String("author_id", ev.AuthorID))
		return nil
	}

	if err := s.gateway.AddReaction(ctx, ev.ChannelID, ev.ID, secondary.EmojiInbox); err != nil {
		return fmt.Errorf("failed to mark new question: %w", err)
	}

	s.logger.Info("queued new question",
		zap.String("message_id", ev.ID),
		zap.String("channel_id", ev.ChannelID),
		zap.String("author_id", ev.AuthorID))
	return nil
}

// isChainContinuation fetches the recent history window and runs the pure
// chain decision over it.
func (s *QueueServiceImpl) isChainContinuation(ctx context.Context, ev primary.MessageCreated, isManager func(string) (bool, error)) (bool, error) {
	window, err := s.gateway.RecentHistory(ctx, ev.ChannelID, s.timings.ChainWindow)
	if err != nil {
		return false, fmt.Errorf("failed to fetch channel history: %w", err)
	}

	botID := s.gateway.BotUserID()
	msgs := make([]chain.Message, 0, len(window))
	for _, m := range window {
		cm := chain.Message{
			ID:       m.ID,
			AuthorID: m.AuthorID,
			FromBot:  m.AuthorIsBot || m.AuthorID == botID,
		}
		if !cm.FromBot && m.ID != ev.ID {
			cm.FromManager, err = isManager(m.AuthorID)
			if err != nil {
				return false, err
			}
		}
		msgs = append(msgs, cm)
	}

	return chain.IsContinuation(ev.ID, ev.AuthorID, msgs), nil
}

// OnReactionAdded drives the claim/confirm/reject/archive state machine.
func (s *QueueServiceImpl) OnReactionAdded(ctx context.Context, ev primary.ReactionAdded) error {
	if ev.ActorID == s.gateway.BotUserID() {
		return nil
	}
	if ev.GuildID == "" {
		return nil // reaction in a DM
	}

	cfg, err := s.configs.Get(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	if !containsID(cfg.QueueChannelIDs, ev.ChannelID) {
		return nil
	}

	origin, err := s.gateway.GetMessage(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		// The message is gone (rejected or archived in a race); nothing to do.
		s.logger.Debug("reaction on unavailable message", zap.String("message_id", ev.MessageID))
		return nil
	}

	actorRoles, err := s.gateway.MemberRoles(ctx, ev.GuildID, ev.ActorID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor roles: %w", err)
	}
	manager := roles.IsManager(actorRoles, cfg.ManagerRoleIDs)
	isAuthor := ev.ActorID == origin.AuthorID

	// Reactions are a manager/author-only control surface.
	if !manager && !isAuthor {
		return s.stripReaction(ctx, ev)
	}

	claimantID, claimed, err := s.claims.Get(ctx, ev.MessageID)
	if err != nil {
		return err
	}
	state := stateNew
	if claimed {
		state = stateClaimed
	}

	switch ev.Marker {
	case primary.MarkerInbox:
		if !manager || state == stateClaimed {
			return s.stripReaction(ctx, ev)
		}
		return s.claim(ctx, cfg, origin, ev)

	case primary.MarkerReject:
		if !manager {
			return s.stripReaction(ctx, ev)
		}
		return s.reject(ctx, ev)

	case primary.MarkerOutbox:
		if state == stateNew {
			// Stale: the outbox marker survived a lost claim row. Reset.
			return s.resetToNew(ctx, ev)
		}
		if ev.ActorID == claimantID || isAuthor {
			return s.archive(ctx, cfg, origin, ev)
		}
		if manager {
			return s.awaitConfirmation(ctx, ev)
		}
		return s.stripReaction(ctx, ev)

	case primary.MarkerConfirm:
		if !manager {
			return s.stripReaction(ctx, ev)
		}
		if state == stateNew {
			return s.stripReaction(ctx, ev)
		}
		return s.archive(ctx, cfg, origin, ev)

	default:
		// Unknown emoji from a manager or the author: not ours to police.
		return nil
	}
}

// claim transitions a New question to Claimed. The idempotent insert makes
// racing managers safe: everyone normalizes reactions, only the winner posts
// the transient reply.
func (s *QueueServiceImpl) claim(ctx context.Context, cfg *secondary.ServerConfigRecord, origin *secondary.ChannelMessage, ev primary.ReactionAdded) error {
	if s.dismiss.ShouldDismiss(origin.Content) {
		return s.dismissLowValue(ctx, ev)
	}

	created, err := s.claims.TryCreate(ctx, ev.MessageID, ev.ActorID)
	if err != nil {
		return err
	}

	if err := s.gateway.ClearReactions(ctx, ev.ChannelID, ev.MessageID); err != nil {
		return fmt.Errorf("failed to clear reactions: %w", err)
	}
	if err := s.gateway.AddReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiOutbox); err != nil {
		return fmt.Errorf("failed to mark claimed question: %w", err)
	}
	if err := s.gateway.AddReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiReject); err != nil {
		return fmt.Errorf("failed to attach reject marker: %w", err)
	}

	if !created {
		s.logger.Debug("lost claim race", zap.String("message_id", ev.MessageID), zap.String("actor_id", ev.ActorID))
		return nil
	}

	content := fmt.Sprintf("<@%s> will answer your question.", ev.ActorID)
	if err := s.gateway.SendReply(ctx, ev.ChannelID, ev.MessageID, content, s.timings.ReplyTTL); err != nil {
		return fmt.Errorf("failed to announce claim: %w", err)
	}

	s.logger.Info("claimed question",
		zap.String("message_id", ev.MessageID),
		zap.String("claimant_id", ev.ActorID))
	return nil
}

// dismissLowValue resolves a misdirected message with a thumbs-up and
// deletion instead of a claim.
func (s *QueueServiceImpl) dismissLowValue(ctx context.Context, ev primary.ReactionAdded) error {
	if err := s.gateway.AddReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiThumbsUp); err != nil {
		return fmt.Errorf("failed to acknowledge dismissal: %w", err)
	}
	s.clock.Sleep(ctx, s.timings.DismissDelay)
	if err := s.gateway.DeleteMessage(ctx, ev.ChannelID, ev.MessageID); err != nil {
		return fmt.Errorf("failed to delete dismissed message: %w", err)
	}

	s.logger.Info("dismissed low-value message", zap.String("message_id", ev.MessageID))
	return nil
}

// reject deletes a question and its claim row without archiving. Terminal.
func (s *QueueServiceImpl) reject(ctx context.Context, ev primary.ReactionAdded) error {
	if err := s.gateway.DeleteMessage(ctx, ev.ChannelID, ev.MessageID); err != nil {
		return fmt.Errorf("failed to delete rejected question: %w", err)
	}
	if err := s.claims.Delete(ctx, ev.MessageID); err != nil {
		return err
	}

	s.logger.Info("rejected question",
		zap.String("message_id", ev.MessageID),
		zap.String("actor_id", ev.ActorID))
	return nil
}

// resetToNew handles an outbox reaction on a message with no claim row: the
// claim was lost or purged, so the question goes back to the queue.
func (s *QueueServiceImpl) resetToNew(ctx context.Context, ev primary.ReactionAdded) error {
	if err := s.gateway.ClearReactions(ctx, ev.ChannelID, ev.MessageID); err != nil {
		return fmt.Errorf("failed to clear reactions: %w", err)
	}
	if err := s.gateway.AddReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiInbox); err != nil {
		return fmt.Errorf("failed to reset question: %w", err)
	}

	s.logger.Info("reset stale question to new", zap.String("message_id", ev.MessageID))
	return nil
}

// awaitConfirmation opens the confirmation window for a manager who wants
// to archive a question someone else claimed. Confirmation itself is
// explicit - a confirm reaction, handled like any other reaction event.
// After the window, a surviving claim row means nobody confirmed, so the
// bot withdraws its confirm marker and the question stays Claimed.
func (s *QueueServiceImpl) awaitConfirmation(ctx context.Context, ev primary.ReactionAdded) error {
	if err := s.gateway.RemoveReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiOutbox, ev.ActorID); err != nil {
		return fmt.Errorf("failed to remove outbox reaction: %w", err)
	}
	if err := s.gateway.AddReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiConfirm); err != nil {
		return fmt.Errorf("failed to open confirmation window: %w", err)
	}

	s.clock.Sleep(ctx, s.timings.ConfirmWindow)

	_, stillClaimed, err := s.claims.Get(ctx, ev.MessageID)
	if err != nil {
		return err
	}
	if !stillClaimed {
		return nil // confirmed and archived during the window
	}

	if err := s.gateway.RemoveReaction(ctx, ev.ChannelID, ev.MessageID, secondary.EmojiConfirm, ""); err != nil {
		return fmt.Errorf("failed to withdraw confirm marker: %w", err)
	}

	s.logger.Debug("confirmation window expired", zap.String("message_id", ev.MessageID))
	return nil
}

// archive assembles the archive record for a question, deletes the related
// live messages, and removes the claim row. If no usable archive channel is
// configured, the acting user is notified and the question stays Claimed.
func (s *QueueServiceImpl) archive(ctx context.Context, cfg *secondary.ServerConfigRecord, origin *secondary.ChannelMessage, ev primary.ReactionAdded) error {
	if !s.archiveUsable(ctx, cfg.ArchiveChannelID) {
		if err := s.gateway.RemoveReaction(ctx, ev.ChannelID, ev.MessageID, markerEmoji(ev.Marker), ev.ActorID); err != nil {
			return fmt.Errorf("failed to remove archive reaction: %w", err)
		}
		notice := fmt.Sprintf("<@%s> there is no archive channel I can post to. Ask an administrator to set one.", ev.ActorID)
		if err := s.gateway.SendReply(ctx, ev.ChannelID, ev.MessageID, notice, s.timings.NotifyTTL); err != nil {
			return fmt.Errorf("failed to send archive notice: %w", err)
		}
		return nil
	}

	embed := &secondary.Embed{
		Title:     fmt.Sprintf("Question by %s", s.displayName(ctx, ev.GuildID, origin.AuthorID)),
		Color:     0xFF0000,
		Timestamp: origin.Timestamp,
		Fields: []secondary.EmbedField{
			{Name: "Question", Value: origin.Content},
		},
	}

	history, err := s.gateway.HistoryAfter(ctx, ev.ChannelID, origin.ID, s.timings.ArchiveLookahead)
	if err != nil {
		// Archive what we have rather than leaving the question stuck.
		s.logger.Warn("failed to scan follow-up history", zap.String("message_id", origin.ID), zap.Error(err))
		history = nil
	}

	isManager := s.managerChecker(ctx, ev.GuildID, cfg)
	fromManager := func(userID string) bool {
		manager, err := isManager(userID)
		if err != nil {
			s.logger.Warn("failed to resolve member roles", zap.String("user_id", userID), zap.Error(err))
			return false
		}
		return manager
	}

	for _, m := range related.Collect(origin.AuthorID, history, fromManager) {
		embed.Fields = append(embed.Fields, secondary.EmbedField{
			Name:  s.displayName(ctx, ev.GuildID, m.AuthorID),
			Value: m.Content,
		})
		if err := s.gateway.DeleteMessage(ctx, ev.ChannelID, m.ID); err != nil {
			s.logger.Warn("failed to delete related message", zap.String("message_id", m.ID), zap.Error(err))
		}
	}

	if err := s.gateway.DeleteMessage(ctx, ev.ChannelID, origin.ID); err != nil {
		return fmt.Errorf("failed to delete archived question: %w", err)
	}
	if err := s.gateway.SendEmbed(ctx, cfg.ArchiveChannelID, embed); err != nil {
		return fmt.Errorf("failed to post archive record: %w", err)
	}
	if err := s.claims.Delete(ctx, origin.ID); err != nil {
		return err
	}

	s.logger.Info("archived question",
		zap.String("message_id", origin.ID),
		zap.String("archive_channel_id", cfg.ArchiveChannelID),
		zap.Int("related_messages", len(embed.Fields)-1))
	return nil
}

// archiveUsable reports whether an archive destination is configured and
// postable. Any probe failure counts as unusable; degrading to the user
// notice beats a half-finished archive.
func (s *QueueServiceImpl) archiveUsable(ctx context.Context, channelID string) bool {
	if channelID == "" {
		return false
	}
	ok, err := s.gateway.CanPost(ctx, channelID)
	if err != nil {
		s.logger.Warn("failed to probe archive channel", zap.String("channel_id", channelID), zap.Error(err))
		return false
	}
	return ok
}

// PurgeStaleClaims deletes all claim rows. Called once at process start:
// claims from a previous session refer to reactions the bot can no longer
// reconcile and would block fresh claims on the same messages.
func (s *QueueServiceImpl) PurgeStaleClaims(ctx context.Context) (int, error) {
	deleted, err := s.claims.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("purged stale claims", zap.Int64("count", deleted))
	}
	return int(deleted), nil
}

// stripReaction removes a reaction from a user who is not allowed to use
// the control surface.
func (s *QueueServiceImpl) stripReaction(ctx context.Context, ev primary.ReactionAdded) error {
	emoji := markerEmoji(ev.Marker)
	if emoji == "" {
		emoji = ev.Emoji
	}
	if err := s.gateway.RemoveReaction(ctx, ev.ChannelID, ev.MessageID, emoji, ev.ActorID); err != nil {
		return fmt.Errorf("failed to remove unauthorized reaction: %w", err)
	}
	return nil
}

// managerChecker returns a memoizing role-authority check for one event's
// guild; chain windows can hit the same author several times.
func (s *QueueServiceImpl) managerChecker(ctx context.Context, guildID string, cfg *secondary.ServerConfigRecord) func(string) (bool, error) {
	memo := make(map[string]bool)
	return func(userID string) (bool, error) {
		if manager, ok := memo[userID]; ok {
			return manager, nil
		}
		memberRoles, err := s.gateway.MemberRoles(ctx, guildID, userID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve member roles: %w", err)
		}
		manager := roles.IsManager(memberRoles, cfg.ManagerRoleIDs)
		memo[userID] = manager
		return manager, nil
	}
}

// displayName resolves a member's display name, falling back to a mention
// when the platform lookup fails.
func (s *QueueServiceImpl) displayName(ctx context.Context, guildID, userID string) string {
	name, err := s.gateway.MemberDisplayName(ctx, guildID, userID)
	if err != nil || name == "" {
		return fmt.Sprintf("<@%s>", userID)
	}
	return name
}

// markerEmoji maps a Marker back to its emoji for reaction removal.
func markerEmoji(m primary.Marker) string {
	switch m {
	case primary.MarkerInbox:
		return secondary.EmojiInbox
	case primary.MarkerOutbox:
		return secondary.EmojiOutbox
	case primary.MarkerConfirm:
		return secondary.EmojiConfirm
	case primary.MarkerReject:
		return secondary.EmojiReject
	default:
		return ""
	}
}

// containsID reports whether an ID is present in a configured set.
func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Ensure QueueServiceImpl implements the interface
var _ primary.QueueService = (*QueueServiceImpl)(nil)
