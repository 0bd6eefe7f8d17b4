package domain

// MessageRef はメッセージを一意に指す参照
type MessageRef struct {
	ChannelID string
	Timestamp string // Slackではメッセージのtsがそのまま識別子になる
}

// Message はSlackメッセージを表すドメインモデル
type Message struct {
	ID        string
	Text      string
	UserID    string
	BotID     string
	ChannelID string
	Reactions []Reaction
	IsSummary bool // 出欠サマリーのブロックを持つイベントメッセージかどうか
}

// HasReactions はメッセージにリアクションがあるかどうかを返す
func (m *Message) HasReactions() bool {
	return len(m.Reactions) > 0
}

// TotalReactionCount はメッセージの総リアクション数を返す
func (m *Message) TotalReactionCount() int {
	total := 0
	for _, r := range m.Reactions {
		total += r.Count
	}
	return total
}

// IsAuthoredBy はメッセージが指定したボットの投稿かどうかを返す
func (m *Message) IsAuthoredBy(id Identity) bool {
	if m.UserID != "" && m.UserID == id.UserID {
		return true
	}
	return m.BotID != "" && m.BotID == id.BotID
}

// IsTrackedBy はメッセージが指定したボットの投稿したイベントメッセージかどうかを返す
// ヘルプやリマインダーなど、ボットのそれ以外の投稿はfalse
func (m *Message) IsTrackedBy(id Identity) bool {
	return m.IsSummary && m.IsAuthoredBy(id)
}

// Identity はボット自身を表す
type Identity struct {
	UserID string
	BotID  string
	TeamID string
	Name   string
}
