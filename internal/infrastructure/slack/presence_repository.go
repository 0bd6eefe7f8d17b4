package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// PresenceRepository はボットのプレゼンスを設定するリポジトリ
type PresenceRepository struct {
	client *slack.Client
}

// NewPresenceRepository は新しいPresenceRepositoryを作成する
func NewPresenceRepository(client *slack.Client) *PresenceRepository {
	return &PresenceRepository{
		client: client,
	}
}

// SetPresence はプレゼンスを設定する
func (r *PresenceRepository) SetPresence(ctx context.Context, presence string) error {
	if err := r.client.SetUserPresenceContext(ctx, presence); err != nil {
		return fmt.Errorf("プレゼンス設定エラー: %w", err)
	}
	return nil
}
