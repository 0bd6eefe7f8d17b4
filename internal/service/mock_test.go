package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Tattsum/timelord/internal/domain"
)

var (
	testEmojis = domain.NewEmojis("white_check_mark", "grey_question", "x")
	testBot    = domain.Identity{UserID: "UBOT", BotID: "BBOT", Name: "timelord"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMessage struct {
	ChannelID string
	Text      string
}

type repliedMessage struct {
	Ref  domain.MessageRef
	Text string
}

// mockMessageRepository はMessageRepositoryのモック実装
type mockMessageRepository struct {
	mu        sync.Mutex
	messages  map[domain.MessageRef]*domain.Message
	posted    []domain.Summary
	updated   map[domain.MessageRef][]domain.Summary
	reactions map[domain.MessageRef][]string
	replies   []repliedMessage
	sent      []sentMessage
	seq       int
	err       error
	reactErr  error
}

func newMockMessageRepository() *mockMessageRepository {
	return &mockMessageRepository{
		messages:  make(map[domain.MessageRef]*domain.Message),
		updated:   make(map[domain.MessageRef][]domain.Summary),
		reactions: make(map[domain.MessageRef][]string),
	}
}

// put はテスト用のメッセージを登録する
func (m *mockMessageRepository) put(msg *domain.Message) domain.MessageRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := refOf(msg)
	m.messages[ref] = msg
	return ref
}

func (m *mockMessageRepository) setReactions(ref domain.MessageRef, reactions []domain.Reaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[ref].Reactions = reactions
}

func (m *mockMessageRepository) delete(ref domain.MessageRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, ref)
}

func (m *mockMessageRepository) FindByRef(ctx context.Context, ref domain.MessageRef) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	msg, ok := m.messages[ref]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	copied := *msg
	copied.Reactions = append([]domain.Reaction(nil), msg.Reactions...)
	return &copied, nil
}

func (m *mockMessageRepository) PostSummary(ctx context.Context, channelID string, summary domain.Summary) (domain.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.MessageRef{}, m.err
	}
	m.seq++
	msg := &domain.Message{
		ID:        fmt.Sprintf("1700000000.%06d", m.seq),
		Text:      summary.Title,
		UserID:    testBot.UserID,
		BotID:     testBot.BotID,
		ChannelID: channelID,
		IsSummary: true,
	}
	ref := refOf(msg)
	m.messages[ref] = msg
	m.posted = append(m.posted, summary)
	return ref, nil
}

func (m *mockMessageRepository) UpdateSummary(ctx context.Context, ref domain.MessageRef, summary domain.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[ref]; !ok {
		return domain.ErrMessageNotFound
	}
	m.updated[ref] = append(m.updated[ref], summary)
	return nil
}

func (m *mockMessageRepository) AddReactions(ctx context.Context, ref domain.MessageRef, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reactErr != nil {
		return m.reactErr
	}
	msg, ok := m.messages[ref]
	if !ok {
		return domain.ErrMessageNotFound
	}
	for _, name := range names {
		msg.Reactions = append(msg.Reactions, domain.Reaction{Name: name, Count: 1, Users: []string{testBot.UserID}})
	}
	m.reactions[ref] = append(m.reactions[ref], names...)
	return nil
}

func (m *mockMessageRepository) Reply(ctx context.Context, ref domain.MessageRef, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[ref]; !ok {
		return domain.ErrMessageNotFound
	}
	m.replies = append(m.replies, repliedMessage{Ref: ref, Text: text})
	return nil
}

func (m *mockMessageRepository) Send(ctx context.Context, channelID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{ChannelID: channelID, Text: text})
	return nil
}

func (m *mockMessageRepository) lastUpdate(ref domain.MessageRef) (domain.Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	updates := m.updated[ref]
	if len(updates) == 0 {
		return domain.Summary{}, false
	}
	return updates[len(updates)-1], true
}

func (m *mockMessageRepository) replyList() []repliedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repliedMessage(nil), m.replies...)
}

// mockUserRepository はUserRepositoryのモック実装
type mockUserRepository struct {
	users map[string]*domain.User
	err   error
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, userIDs []string) (map[string]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[string]*domain.User)
	for _, userID := range userIDs {
		if user, exists := m.users[userID]; exists {
			result[userID] = user
		}
	}
	return result, nil
}

// mockChannelRepository はChannelRepositoryのモック実装
type mockChannelRepository struct {
	channels map[string]*domain.Channel
	calls    int
}

func (m *mockChannelRepository) FindByID(ctx context.Context, channelID string) (*domain.Channel, error) {
	m.calls++
	if ch, ok := m.channels[channelID]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("channel_not_found: %s", channelID)
}

func testUsers() *mockUserRepository {
	return &mockUserRepository{
		users: map[string]*domain.User{
			"UA":   {ID: "UA", Name: "alice", DisplayName: "Alice"},
			"UB":   {ID: "UB", Name: "bob", RealName: "Bob B."},
			"UC":   {ID: "UC", Name: "carol"},
			"UBOT": {ID: "UBOT", Name: "timelord"},
		},
	}
}

func botMessage(ts string, reactions ...domain.Reaction) *domain.Message {
	return &domain.Message{
		ID:        ts,
		Text:      "[19:30] Movie Night",
		UserID:    testBot.UserID,
		BotID:     testBot.BotID,
		ChannelID: "C1",
		Reactions: reactions,
		IsSummary: true,
	}
}

func refOf(msg *domain.Message) domain.MessageRef {
	return domain.MessageRef{ChannelID: msg.ChannelID, Timestamp: msg.ID}
}
