package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Tattsum/timelord/internal/domain"
)

// Attendance はイベントメッセージのリアクションを出欠として集計するサービス
type Attendance struct {
	messageRepo domain.MessageRepository
	userRepo    domain.UserRepository
	emojis      domain.Emojis
	self        domain.Identity
	logger      *slog.Logger
}

// NewAttendance は新しいAttendanceサービスを作成する
func NewAttendance(messageRepo domain.MessageRepository, userRepo domain.UserRepository, emojis domain.Emojis, self domain.Identity, logger *slog.Logger) *Attendance {
	return &Attendance{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		emojis:      emojis,
		self:        self,
		logger:      logger,
	}
}

// Refresh はメッセージのリアクションを集計し直して出欠表示を更新する
// ボットが投稿したイベントメッセージ以外は対象外
func (a *Attendance) Refresh(ctx context.Context, ref domain.MessageRef) error {
	msg, err := a.messageRepo.FindByRef(ctx, ref)
	if err != nil {
		return fmt.Errorf("メッセージ取得エラー: %w", err)
	}
	if !msg.IsTrackedBy(a.self) {
		a.logger.Debug("イベントメッセージではないため更新しません", "channel", ref.ChannelID, "ts", ref.Timestamp)
		return nil
	}

	view, err := a.View(ctx, msg)
	if err != nil {
		return err
	}

	summary := domain.NewSummary(msg.Text, a.emojis, view)
	if err := a.messageRepo.UpdateSummary(ctx, ref, summary); err != nil {
		return fmt.Errorf("出欠表示の更新エラー: %w", err)
	}

	a.logger.Info("出欠表示を更新しました",
		"channel", ref.ChannelID,
		"ts", ref.Timestamp,
		"reactions", msg.TotalReactionCount(),
		"yes", len(view.Yes),
		"maybe", len(view.Maybe),
		"no", len(view.No))
	return nil
}

// View はメッセージのリアクションから出欠の表示名リストを作る
// 同じリアクションの中でユーザーが重複することはないので重複排除はしない
func (a *Attendance) View(ctx context.Context, msg *domain.Message) (domain.AttendanceView, error) {
	var view domain.AttendanceView
	if !msg.HasReactions() {
		return view, nil
	}

	users, err := a.resolve(ctx, a.reactors(msg, domain.BucketYes, domain.BucketMaybe, domain.BucketNo))
	if err != nil {
		return view, err
	}

	for _, reaction := range msg.Reactions {
		bucket := a.emojis.Classify(reaction.Name)
		if bucket == domain.BucketIgnored {
			continue
		}
		for _, userID := range reaction.Users {
			if userID == a.self.UserID {
				continue
			}
			view.Append(bucket, users[userID].GetDisplayName())
		}
	}
	return view, nil
}

// PingList はYesとMaybeのユーザーへのメンションを空白区切りで返す
// 両方にリアクションしたユーザーも1回だけ含まれる
func (a *Attendance) PingList(ctx context.Context, msg *domain.Message) (string, error) {
	userIDs := a.reactors(msg, domain.BucketYes, domain.BucketMaybe)
	users, err := a.resolve(ctx, userIDs)
	if err != nil {
		return "", err
	}

	mentions := make([]string, 0, len(users))
	for _, userID := range userIDs {
		mentions = append(mentions, users[userID].Mention())
	}
	sort.Strings(mentions)
	return strings.Join(mentions, " "), nil
}

// reactors は指定した区分にリアクションしたユーザーIDを重複なしで返す（ボット自身は除く）
func (a *Attendance) reactors(msg *domain.Message, buckets ...domain.Bucket) []string {
	wanted := make(map[domain.Bucket]bool, len(buckets))
	for _, b := range buckets {
		wanted[b] = true
	}

	seen := make(map[string]bool)
	userIDs := make([]string, 0)
	for _, reaction := range msg.Reactions {
		if !wanted[a.emojis.Classify(reaction.Name)] {
			continue
		}
		for _, userID := range reaction.Users {
			if userID == a.self.UserID || seen[userID] {
				continue
			}
			seen[userID] = true
			userIDs = append(userIDs, userID)
		}
	}
	return userIDs
}

// resolve はユーザーIDを一括で解決する。1人でも見つからなければErrUserNotFound
func (a *Attendance) resolve(ctx context.Context, userIDs []string) (map[string]*domain.User, error) {
	if len(userIDs) == 0 {
		return map[string]*domain.User{}, nil
	}

	users, err := a.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("ユーザー情報取得エラー: %w", err)
	}
	for _, userID := range userIDs {
		if _, ok := users[userID]; !ok {
			return nil, fmt.Errorf("ユーザー %s: %w", userID, domain.ErrUserNotFound)
		}
	}
	return users, nil
}
