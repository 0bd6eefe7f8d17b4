package domain

// Slackのチャンネル種別
const (
	ChannelTypeChannel = "channel"
	ChannelTypeGroup   = "group"
	ChannelTypeIM      = "im"
	ChannelTypeMPIM    = "mpim"
)

// Channel はSlackチャンネルを表すドメインモデル
type Channel struct {
	ID   string
	Name string
	Type string
}

// IsGroupContext は複数人が参加するチャンネルかどうかを返す
// 1対1のDMだけがグループ外として扱われる
func (c *Channel) IsGroupContext() bool {
	return IsGroupChannelType(c.Type)
}

// IsGroupChannelType はチャンネル種別がグループかどうかを返す
func IsGroupChannelType(channelType string) bool {
	return channelType != ChannelTypeIM
}
