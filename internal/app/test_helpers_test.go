package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/queuebot/internal/ports/secondary"
)

// Ensure the mocks implement the interfaces
var (
	_ secondary.ServerConfigRepository = (*mockConfigRepo)(nil)
	_ secondary.ClaimRepository        = (*mockClaimRepo)(nil)
	_ secondary.ChatGateway            = (*mockGateway)(nil)
	_ secondary.Clock                  = (*mockClock)(nil)
)

// mockConfig is the test-side shape of a server configuration.
type mockConfig struct {
	archiveChannelID string
	queueChannelIDs  []string
	managerRoleIDs   []string
}

// mockConfigRepo implements secondary.ServerConfigRepository for testing.
type mockConfigRepo struct {
	mu       sync.Mutex
	data     map[string]mockConfig
	getCalls int
}

func newMockConfigRepo() *mockConfigRepo {
	return &mockConfigRepo{data: make(map[string]mockConfig)}
}

func (m *mockConfigRepo) set(serverID string, cfg mockConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[serverID] = cfg
}

func (m *mockConfigRepo) Get(ctx context.Context, serverID string) (*secondary.ServerConfigRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	cfg := m.data[serverID]
	return &secondary.ServerConfigRecord{
		ServerID:         serverID,
		ArchiveChannelID: cfg.archiveChannelID,
		QueueChannelIDs:  cfg.queueChannelIDs,
		ManagerRoleIDs:   cfg.managerRoleIDs,
	}, nil
}

func (m *mockConfigRepo) SetArchiveChannel(ctx context.Context, serverID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.data[serverID]
	cfg.archiveChannelID = channelID
	m.data[serverID] = cfg
	return nil
}

func (m *mockConfigRepo) SetQueueChannels(ctx context.Context, serverID string, channelIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.data[serverID]
	cfg.queueChannelIDs = channelIDs
	m.data[serverID] = cfg
	return nil
}

func (m *mockConfigRepo) SetManagerRoles(ctx context.Context, serverID string, roleIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.data[serverID]
	cfg.managerRoleIDs = roleIDs
	m.data[serverID] = cfg
	return nil
}

func (m *mockConfigRepo) Reset(ctx context.Context, serverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, serverID)
	return nil
}

// mockClaimRepo implements secondary.ClaimRepository for testing.
type mockClaimRepo struct {
	mu     sync.Mutex
	claims map[string]string
}

func newMockClaimRepo() *mockClaimRepo {
	return &mockClaimRepo{claims: make(map[string]string)}
}

func (m *mockClaimRepo) TryCreate(ctx context.Context, messageID, claimantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.claims[messageID]; ok {
		return false, nil
	}
	m.claims[messageID] = claimantID
	return true, nil
}

func (m *mockClaimRepo) Get(ctx context.Context, messageID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	claimantID, ok := m.claims[messageID]
	return claimantID, ok, nil
}

func (m *mockClaimRepo) Delete(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, messageID)
	return nil
}

func (m *mockClaimRepo) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.claims))
	m.claims = make(map[string]string)
	return n, nil
}

func (m *mockClaimRepo) List(ctx context.Context) ([]*secondary.ClaimRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.ClaimRecord
	for messageID, claimantID := range m.claims {
		out = append(out, &secondary.ClaimRecord{MessageID: messageID, ClaimantID: claimantID})
	}
	return out, nil
}

// mockClock implements secondary.Clock without waiting. onSleep, when set,
// runs during the sleep so tests can simulate events landing inside a
// confirmation window.
type mockClock struct {
	sleeps  []time.Duration
	onSleep func()
}

func newMockClock() *mockClock {
	return &mockClock{}
}

func (m *mockClock) Sleep(ctx context.Context, d time.Duration) {
	m.sleeps = append(m.sleeps, d)
	if m.onSleep != nil {
		m.onSleep()
	}
}

// reactionCall records a gateway reaction mutation.
type reactionCall struct {
	channelID string
	messageID string
	emoji     string
	userID    string
}

// sentMessage records a plain SendMessage.
type sentMessage struct {
	channelID string
	content   string
}

// replyCall records a SendReply.
type replyCall struct {
	channelID   string
	messageID   string
	content     string
	deleteAfter time.Duration
}

// embedCall records a SendEmbed.
type embedCall struct {
	channelID string
	embed     *secondary.Embed
}

// mockGateway implements secondary.ChatGateway for testing. Fixture state
// (messages, histories, roles) is set up front; every outbound command is
// recorded for assertions.
type mockGateway struct {
	botID string

	messages     map[string]*secondary.ChannelMessage
	recent       map[string][]*secondary.ChannelMessage // channelID -> newest first
	forward      map[string][]*secondary.ChannelMessage // afterMessageID -> oldest first
	roles        map[string][]string
	displayNames map[string]string
	admins       map[string]bool
	noPost       map[string]bool // channels the bot cannot post in

	added   []reactionCall
	removed []reactionCall
	cleared []string
	sent    []sentMessage
	replies []replyCall
	embeds  []embedCall
	deleted []string
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		botID:        "bot",
		messages:     make(map[string]*secondary.ChannelMessage),
		recent:       make(map[string][]*secondary.ChannelMessage),
		forward:      make(map[string][]*secondary.ChannelMessage),
		roles:        make(map[string][]string),
		displayNames: make(map[string]string),
		admins:       make(map[string]bool),
		noPost:       make(map[string]bool),
	}
}

func (g *mockGateway) BotUserID() string { return g.botID }

func (g *mockGateway) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	g.added = append(g.added, reactionCall{channelID: channelID, messageID: messageID, emoji: emoji})
	return nil
}

func (g *mockGateway) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	g.removed = append(g.removed, reactionCall{channelID: channelID, messageID: messageID, emoji: emoji, userID: userID})
	return nil
}

func (g *mockGateway) ClearReactions(ctx context.Context, channelID, messageID string) error {
	g.cleared = append(g.cleared, messageID)
	return nil
}

func (g *mockGateway) GetMessage(ctx context.Context, channelID, messageID string) (*secondary.ChannelMessage, error) {
	msg, ok := g.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", messageID)
	}
	return msg, nil
}

func (g *mockGateway) SendMessage(ctx context.Context, channelID, content string) error {
	g.sent = append(g.sent, sentMessage{channelID: channelID, content: content})
	return nil
}

func (g *mockGateway) SendReply(ctx context.Context, channelID, messageID, content string, deleteAfter time.Duration) error {
	g.replies = append(g.replies, replyCall{channelID: channelID, messageID: messageID, content: content, deleteAfter: deleteAfter})
	return nil
}

func (g *mockGateway) SendEmbed(ctx context.Context, channelID string, embed *secondary.Embed) error {
	g.embeds = append(g.embeds, embedCall{channelID: channelID, embed: embed})
	return nil
}

func (g *mockGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	g.deleted = append(g.deleted, messageID)
	return nil
}

func (g *mockGateway) RecentHistory(ctx context.Context, channelID string, limit int) ([]*secondary.ChannelMessage, error) {
	history := g.recent[channelID]
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (g *mockGateway) HistoryAfter(ctx context.Context, channelID, afterMessageID string, limit int) ([]*secondary.ChannelMessage, error) {
	history := g.forward[afterMessageID]
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (g *mockGateway) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	return g.roles[userID], nil
}

func (g *mockGateway) MemberDisplayName(ctx context.Context, guildID, userID string) (string, error) {
	if name, ok := g.displayNames[userID]; ok {
		return name, nil
	}
	return userID, nil
}

func (g *mockGateway) IsAdministrator(ctx context.Context, guildID, userID string) (bool, error) {
	return g.admins[userID], nil
}

func (g *mockGateway) CanPost(ctx context.Context, channelID string) (bool, error) {
	return !g.noPost[channelID], nil
}

// addedEmojis returns the emoji added to a message, in order.
func (g *mockGateway) addedEmojis(messageID string) []string {
	var out []string
	for _, call := range g.added {
		if call.messageID == messageID {
			out = append(out, call.emoji)
		}
	}
	return out
}

// wasDeleted reports whether a message was deleted.
func (g *mockGateway) wasDeleted(messageID string) bool {
	for _, id := range g.deleted {
		if id == messageID {
			return true
		}
	}
	return false
}
