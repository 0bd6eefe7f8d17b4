package slack

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/slack-go/slack"
)

// 同時に問い合わせるユーザー数の上限
const maxConcurrentLookups = 10

// UserRepository はSlack APIを使用してユーザー情報を取得するリポジトリ
type UserRepository struct {
	client *slack.Client
}

// NewUserRepository は新しいUserRepositoryを作成する
func NewUserRepository(client *slack.Client) *UserRepository {
	return &UserRepository{
		client: client,
	}
}

// FindByIDs は指定されたIDのユーザーを取得する
// 存在しない、または無効化されたユーザーは結果に含めない
func (r *UserRepository) FindByIDs(ctx context.Context, userIDs []string) (map[string]*domain.User, error) {
	userMap := make(map[string]*domain.User, len(userIDs))
	if len(userIDs) == 0 {
		return userMap, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	semaphore := make(chan struct{}, maxConcurrentLookups)

	for _, userID := range uniqueIDs(userIDs) {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			userInfo, err := r.client.GetUserInfoContext(ctx, id)
			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil && userInfo != nil && !userInfo.Deleted:
				userMap[id] = convertToDomainUser(userInfo)
			case err == nil || hasSlackError(err, errUserNotFound):
				// 退会済み
			default:
				if firstErr == nil {
					firstErr = fmt.Errorf("ユーザー情報取得エラー(%s): %w", id, err)
				}
			}
		}(userID)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return userMap, nil
}

func convertToDomainUser(user *slack.User) *domain.User {
	return &domain.User{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: user.Profile.DisplayName,
		RealName:    user.RealName,
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
