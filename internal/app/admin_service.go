package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/example/queuebot/internal/ports/primary"
	"github.com/example/queuebot/internal/ports/secondary"
)

// mentionDecoration strips the platform's channel/role mention wrappers
// (<#123>, <@&456>) down to bare IDs.
var mentionDecoration = regexp.MustCompile(`[<>#@&!]`)

// AdminServiceImpl implements the AdminService interface. It owns every
// configuration mutation; the queue service only ever reads config through
// the cache.
type AdminServiceImpl struct {
	gateway secondary.ChatGateway
	repo    secondary.ServerConfigRepository
	cache   *ConfigCache
	prefix  string
	logger  *zap.Logger
}

// NewAdminService creates a new AdminService with injected dependencies.
func NewAdminService(
	gateway secondary.ChatGateway,
	repo secondary.ServerConfigRepository,
	cache *ConfigCache,
	prefix string,
	logger *zap.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		gateway: gateway,
		repo:    repo,
		cache:   cache,
		prefix:  prefix,
		logger:  logger,
	}
}

// HandleCommand parses and executes a prefix command. Non-commands and
// unknown commands return handled=false so the caller can treat the message
// normally. Commands from non-administrators are swallowed silently.
func (s *AdminServiceImpl) HandleCommand(ctx context.Context, ev primary.MessageCreated) (bool, error) {
	if ev.GuildID == "" || !strings.HasPrefix(ev.Content, s.prefix) {
		return false, nil
	}

	fields := strings.Fields(ev.Content)
	if len(fields) == 0 {
		return false, nil
	}
	command := strings.TrimPrefix(fields[0], s.prefix)
	args := fields[1:]

	switch command {
	case "archive", "queue", "roles", "show", "reset", "help":
	default:
		return false, nil
	}

	admin, err := s.gateway.IsAdministrator(ctx, ev.GuildID, ev.AuthorID)
	if err != nil {
		return true, fmt.Errorf("failed to check administrator permission: %w", err)
	}
	if !admin {
		s.logger.Debug("ignored command from non-administrator",
			zap.String("command", command),
			zap.String("author_id", ev.AuthorID))
		return true, nil
	}

	switch command {
	case "archive":
		return true, s.commandArchive(ctx, ev)
	case "queue":
		return true, s.commandQueue(ctx, ev, args)
	case "roles":
		return true, s.commandRoles(ctx, ev, args)
	case "show":
		return true, s.commandShow(ctx, ev)
	case "reset":
		return true, s.commandReset(ctx, ev)
	default:
		return true, s.commandHelp(ctx, ev)
	}
}

func (s *AdminServiceImpl) commandArchive(ctx context.Context, ev primary.MessageCreated) error {
	if err := s.SetArchiveChannel(ctx, ev.GuildID, ev.ChannelID); err != nil {
		return err
	}
	return s.gateway.SendMessage(ctx, ev.ChannelID,
		fmt.Sprintf("<#%s> is now set as the archive channel.", ev.ChannelID))
}

func (s *AdminServiceImpl) commandQueue(ctx context.Context, ev primary.MessageCreated, args []string) error {
	if len(args) == 0 {
		return s.gateway.SendMessage(ctx, ev.ChannelID,
			fmt.Sprintf("Tag the channels to enable as queue channels in the command's arguments: `%squeue #questions1 #questions2`.", s.prefix))
	}

	ids := stripMentions(args)
	if err := s.SetQueueChannels(ctx, ev.GuildID, ids); err != nil {
		return err
	}
	return s.gateway.SendMessage(ctx, ev.ChannelID,
		fmt.Sprintf("The channels used as queues are: %s", strings.Join(args, ", ")))
}

func (s *AdminServiceImpl) commandRoles(ctx context.Context, ev primary.MessageCreated, args []string) error {
	if len(args) == 0 {
		return s.gateway.SendMessage(ctx, ev.ChannelID,
			fmt.Sprintf("Tag the roles to be allowed to manage queues in the command's arguments: `%sroles @Role1 @Role2`.", s.prefix))
	}

	ids := stripMentions(args)
	if err := s.SetManagerRoles(ctx, ev.GuildID, ids); err != nil {
		return err
	}
	return s.gateway.SendMessage(ctx, ev.ChannelID,
		fmt.Sprintf("The roles that can manage queues are: %s", strings.Join(args, ", ")))
}

func (s *AdminServiceImpl) commandShow(ctx context.Context, ev primary.MessageCreated) error {
	cfg, err := s.GetConfig(ctx, ev.GuildID)
	if err != nil {
		return err
	}

	archive := "not set"
	if cfg.ArchiveChannelID != "" {
		archive = fmt.Sprintf("<#%s>", cfg.ArchiveChannelID)
	}
	queues := "none"
	if len(cfg.QueueChannelIDs) > 0 {
		queues = mentionList(cfg.QueueChannelIDs, "<#%s>")
	}
	managerRoles := "none"
	if len(cfg.ManagerRoleIDs) > 0 {
		managerRoles = mentionList(cfg.ManagerRoleIDs, "<@&%s>")
	}

	embed := &secondary.Embed{
		Title: "Queue configuration",
		Color: 0xFFFF00,
		Fields: []secondary.EmbedField{
			{Name: "Archive channel", Value: archive},
			{Name: "Queue channels", Value: queues},
			{Name: "Manager roles", Value: managerRoles},
		},
	}
	return s.gateway.SendEmbed(ctx, ev.ChannelID, embed)
}

func (s *AdminServiceImpl) commandReset(ctx context.Context, ev primary.MessageCreated) error {
	if err := s.ResetConfig(ctx, ev.GuildID); err != nil {
		return err
	}
	return s.gateway.SendMessage(ctx, ev.ChannelID, "Queue configuration has been reset.")
}

func (s *AdminServiceImpl) commandHelp(ctx context.Context, ev primary.MessageCreated) error {
	embed := &secondary.Embed{
		Title: "Help",
		Color: 0xFFFF00,
		Fields: []secondary.EmbedField{
			{
				Name: "Setup",
				Value: "This bot manages a queue of questions and archives them when " +
					"answered. It needs a small setup to be functional: set the channel " +
					"in which to archive messages, the channels which are treated as " +
					"queues, and the roles that can manage queues.",
			},
			{
				Name: "Command usage",
				Value: fmt.Sprintf("`%[1]shelp` shows this menu.\n"+
					"`%[1]sarchive` marks the current channel as the archive.\n"+
					"`%[1]squeue #channel1 #channel2` declares channels as queues.\n"+
					"`%[1]sroles @Role1 @Role2` declares roles as queue managers.\n"+
					"`%[1]sshow` shows the current configuration.\n"+
					"`%[1]sreset` clears the configuration.", s.prefix),
			},
			{
				Name: "Queue management",
				Value: "When a regular user sends a message in a queue channel, the bot " +
					"reacts with 📥. Consecutive messages by the same user (ignoring " +
					"interruptions by managers) are regarded as one question. A queue " +
					"manager claims a question by clicking 📥; once answered it is " +
					"archived by clicking 📤. Managers that did not claim a question " +
					"can still archive it by confirming with ✅, and ❌ removes a " +
					"question without archiving it.",
			},
		},
	}
	return s.gateway.SendEmbed(ctx, ev.ChannelID, embed)
}

// GetConfig returns the server's configuration, empty if never set.
func (s *AdminServiceImpl) GetConfig(ctx context.Context, serverID string) (*primary.ServerConfig, error) {
	record, err := s.repo.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return &primary.ServerConfig{
		ServerID:         record.ServerID,
		ArchiveChannelID: record.ArchiveChannelID,
		QueueChannelIDs:  record.QueueChannelIDs,
		ManagerRoleIDs:   record.ManagerRoleIDs,
	}, nil
}

// SetArchiveChannel sets the channel resolved questions are archived to.
func (s *AdminServiceImpl) SetArchiveChannel(ctx context.Context, serverID, channelID string) error {
	if err := s.repo.SetArchiveChannel(ctx, serverID, channelID); err != nil {
		return err
	}
	s.cache.Invalidate(serverID)
	s.logger.Info("set archive channel",
		zap.String("server_id", serverID),
		zap.String("channel_id", channelID))
	return nil
}

// SetQueueChannels replaces the set of channels treated as queues.
func (s *AdminServiceImpl) SetQueueChannels(ctx context.Context, serverID string, channelIDs []string) error {
	if err := s.repo.SetQueueChannels(ctx, serverID, channelIDs); err != nil {
		return err
	}
	s.cache.Invalidate(serverID)
	s.logger.Info("set queue channels",
		zap.String("server_id", serverID),
		zap.Strings("channel_ids", channelIDs))
	return nil
}

// SetManagerRoles replaces the set of roles allowed to manage queues.
func (s *AdminServiceImpl) SetManagerRoles(ctx context.Context, serverID string, roleIDs []string) error {
	if err := s.repo.SetManagerRoles(ctx, serverID, roleIDs); err != nil {
		return err
	}
	s.cache.Invalidate(serverID)
	s.logger.Info("set manager roles",
		zap.String("server_id", serverID),
		zap.Strings("role_ids", roleIDs))
	return nil
}

// ResetConfig deletes the server's configuration entirely.
func (s *AdminServiceImpl) ResetConfig(ctx context.Context, serverID string) error {
	if err := s.repo.Reset(ctx, serverID); err != nil {
		return err
	}
	s.cache.Invalidate(serverID)
	s.logger.Info("reset server config", zap.String("server_id", serverID))
	return nil
}

// stripMentions reduces mention-decorated arguments to bare IDs.
func stripMentions(args []string) []string {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		if id := mentionDecoration.ReplaceAllString(arg, ""); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// mentionList renders IDs using the given mention format.
func mentionList(ids []string, format string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf(format, id))
	}
	return strings.Join(parts, ", ")
}

// Ensure AdminServiceImpl implements the interface
var _ primary.AdminService = (*AdminServiceImpl)(nil)
