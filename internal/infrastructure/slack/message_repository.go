package slack

import (
	"context"
	"fmt"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/slack-go/slack"
)

// MessageRepository はSlack APIを使用してメッセージを取得・投稿するリポジトリ
type MessageRepository struct {
	client *slack.Client
}

// NewMessageRepository は新しいMessageRepositoryを作成する
func NewMessageRepository(client *slack.Client) *MessageRepository {
	return &MessageRepository{
		client: client,
	}
}

// FindByRef はtsを指定してメッセージを1件取得する
// 本文と作成者は履歴から、リアクションは全ユーザー分をreactions.getから取得する
func (r *MessageRepository) FindByRef(ctx context.Context, ref domain.MessageRef) (*domain.Message, error) {
	params := slack.GetConversationHistoryParameters{
		ChannelID: ref.ChannelID,
		Oldest:    ref.Timestamp,
		Latest:    ref.Timestamp,
		Inclusive: true,
		Limit:     1,
	}

	history, err := r.client.GetConversationHistoryContext(ctx, &params)
	if err != nil {
		return nil, fmt.Errorf("メッセージ取得エラー: %w", mapNotFound(err))
	}

	var found *slack.Message
	for i := range history.Messages {
		if history.Messages[i].Timestamp == ref.Timestamp {
			found = &history.Messages[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("メッセージ取得エラー %s/%s: %w", ref.ChannelID, ref.Timestamp, domain.ErrMessageNotFound)
	}

	// 履歴に含まれるusersは件数が多いと省略されるためfullで取り直す
	reacted, err := r.client.GetReactionsContext(ctx,
		slack.NewRefToMessage(ref.ChannelID, ref.Timestamp),
		slack.GetReactionsParameters{Full: true},
	)
	if err != nil {
		return nil, fmt.Errorf("リアクション取得エラー: %w", mapNotFound(err))
	}

	return r.convertToDomainMessage(found, ref.ChannelID, reacted), nil
}

// PostSummary は出欠サマリー付きのイベントメッセージを投稿する
func (r *MessageRepository) PostSummary(ctx context.Context, channelID string, summary domain.Summary) (domain.MessageRef, error) {
	channel, ts, err := r.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(summary.Title, false),
		slack.MsgOptionBlocks(summaryBlocks(summary)...),
	)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("イベント投稿エラー: %w", mapNotFound(err))
	}
	return domain.MessageRef{ChannelID: channel, Timestamp: ts}, nil
}

// UpdateSummary は投稿済みメッセージのサマリーを書き換える
func (r *MessageRepository) UpdateSummary(ctx context.Context, ref domain.MessageRef, summary domain.Summary) error {
	_, _, _, err := r.client.UpdateMessageContext(ctx, ref.ChannelID, ref.Timestamp,
		slack.MsgOptionText(summary.Title, false),
		slack.MsgOptionBlocks(summaryBlocks(summary)...),
	)
	if err != nil {
		return fmt.Errorf("サマリー更新エラー: %w", mapNotFound(err))
	}
	return nil
}

// AddReactions はメッセージに順番にリアクションを付ける
func (r *MessageRepository) AddReactions(ctx context.Context, ref domain.MessageRef, names []string) error {
	item := slack.NewRefToMessage(ref.ChannelID, ref.Timestamp)
	for _, name := range names {
		err := r.client.AddReactionContext(ctx, name, item)
		if err != nil && !hasSlackError(err, errAlreadyReacted) {
			return fmt.Errorf("リアクション追加エラー(%s): %w", name, mapNotFound(err))
		}
	}
	return nil
}

// Reply はスレッドに返信し、チャンネルにも表示する
func (r *MessageRepository) Reply(ctx context.Context, ref domain.MessageRef, text string) error {
	_, _, err := r.client.PostMessageContext(ctx, ref.ChannelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(ref.Timestamp),
		slack.MsgOptionBroadcast(),
	)
	if err != nil {
		return fmt.Errorf("返信エラー: %w", mapNotFound(err))
	}
	return nil
}

// Send はチャンネルにテキストを投稿する
func (r *MessageRepository) Send(ctx context.Context, channelID, text string) error {
	if _, _, err := r.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("メッセージ送信エラー: %w", err)
	}
	return nil
}

// convertToDomainMessage はSlackのMessageをドメインモデルに変換する
func (r *MessageRepository) convertToDomainMessage(msg *slack.Message, channelID string, itemReactions []slack.ItemReaction) *domain.Message {
	reactions := make([]domain.Reaction, 0, len(itemReactions))
	for _, reaction := range itemReactions {
		reactions = append(reactions, domain.Reaction{
			Name:  reaction.Name,
			Count: reaction.Count,
			Users: append([]string(nil), reaction.Users...),
		})
	}

	return &domain.Message{
		ID:        msg.Timestamp,
		Text:      msg.Text,
		UserID:    msg.User,
		BotID:     msg.BotID,
		ChannelID: channelID,
		Reactions: reactions,
		IsSummary: isSummaryBlocks(msg.Blocks),
	}
}

// mapNotFound は参照先が消えたことを示すエラーをErrMessageNotFoundに変換する
func mapNotFound(err error) error {
	if hasSlackError(err, errMessageNotFound, errChannelNotFound, errThreadNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrMessageNotFound, err)
	}
	return err
}
