package slack

import (
	"context"
	"fmt"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/slack-go/slack"
)

// ChannelRepository はSlack APIを使用してチャンネル情報を取得するリポジトリ
type ChannelRepository struct {
	client *slack.Client
}

// NewChannelRepository は新しいChannelRepositoryを作成する
func NewChannelRepository(client *slack.Client) *ChannelRepository {
	return &ChannelRepository{
		client: client,
	}
}

// FindByID はチャンネルIDからチャンネルを取得する
func (r *ChannelRepository) FindByID(ctx context.Context, channelID string) (*domain.Channel, error) {
	conversation, err := r.client.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return nil, fmt.Errorf("チャンネル情報取得エラー(%s): %w", channelID, err)
	}

	return &domain.Channel{
		ID:   conversation.ID,
		Name: conversation.Name,
		Type: channelType(conversation),
	}, nil
}

func channelType(conversation *slack.Channel) string {
	switch {
	case conversation.IsIM:
		return domain.ChannelTypeIM
	case conversation.IsMpIM:
		return domain.ChannelTypeMPIM
	case conversation.IsPrivate:
		return domain.ChannelTypeGroup
	default:
		return domain.ChannelTypeChannel
	}
}
