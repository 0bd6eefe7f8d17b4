package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tattsum/timelord/internal/domain"
)

// ReminderDispatcher は予約時刻になったイベントのリマインダーを送るサービス
type ReminderDispatcher struct {
	messageRepo domain.MessageRepository
	attendance  *Attendance
	logger      *slog.Logger
}

// NewReminderDispatcher は新しいReminderDispatcherを作成する
func NewReminderDispatcher(messageRepo domain.MessageRepository, attendance *Attendance, logger *slog.Logger) *ReminderDispatcher {
	return &ReminderDispatcher{
		messageRepo: messageRepo,
		attendance:  attendance,
		logger:      logger,
	}
}

// Dispatch はジョブ1件分のリマインダーを送る
//
// 送信は1回だけ試み、再送はしない。イベントメッセージやユーザーが
// 消えていた場合はログに残してリマインダーを捨てる（エラーは返さない）。
func (d *ReminderDispatcher) Dispatch(ctx context.Context, job domain.ScheduledJob) error {
	logger := d.logger.With("job_id", job.ID, "topic", job.Topic, "channel", job.Message.ChannelID)
	logger.Info("リマインダーを送信します", "fire_time", job.FireTime)

	err := d.dispatch(ctx, job)
	if domain.IsStale(err) {
		logger.Warn("参照先が見つからないためリマインダーを破棄しました", "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("リマインダーを送信しました")
	return nil
}

func (d *ReminderDispatcher) dispatch(ctx context.Context, job domain.ScheduledJob) error {
	msg, err := d.messageRepo.FindByRef(ctx, job.Message)
	if err != nil {
		return fmt.Errorf("メッセージ取得エラー: %w", err)
	}

	pings, err := d.attendance.PingList(ctx, msg)
	if err != nil {
		return err
	}

	if err := d.messageRepo.Reply(ctx, job.Message, ReminderText(job, pings)); err != nil {
		return fmt.Errorf("リマインダー送信エラー: %w", err)
	}
	return nil
}

// ReminderText はリマインダーの本文を作る
func ReminderText(job domain.ScheduledJob, pings string) string {
	return fmt.Sprintf("it's %s, time for %s!\n%s", job.TimeLabel(), job.Topic, pings)
}
