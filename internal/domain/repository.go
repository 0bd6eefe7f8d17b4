package domain

import "context"

// ChannelRepository はチャンネル情報を取得するリポジトリインターフェース
type ChannelRepository interface {
	FindByID(ctx context.Context, channelID string) (*Channel, error)
}

// MessageRepository はメッセージを取得・投稿するリポジトリインターフェース
type MessageRepository interface {
	// FindByRef はリアクションを含むメッセージを取得する。削除済みの場合はErrMessageNotFound
	FindByRef(ctx context.Context, ref MessageRef) (*Message, error)
	// PostSummary は出欠サマリー付きのメッセージを投稿する
	PostSummary(ctx context.Context, channelID string, summary Summary) (MessageRef, error)
	// UpdateSummary は投稿済みメッセージの出欠サマリーを書き換える
	UpdateSummary(ctx context.Context, ref MessageRef, summary Summary) error
	AddReactions(ctx context.Context, ref MessageRef, names []string) error
	// Reply はメッセージのスレッドに返信し、チャンネルにも表示する
	Reply(ctx context.Context, ref MessageRef, text string) error
	Send(ctx context.Context, channelID, text string) error
}

// UserRepository はユーザー情報を取得するリポジトリインターフェース
type UserRepository interface {
	// FindByIDs は存在するユーザーだけを返す。見つからないIDは結果に含まれない
	FindByIDs(ctx context.Context, userIDs []string) (map[string]*User, error)
}

// PresenceRepository はボットのプレゼンスを設定するリポジトリインターフェース
type PresenceRepository interface {
	SetPresence(ctx context.Context, presence string) error
}
