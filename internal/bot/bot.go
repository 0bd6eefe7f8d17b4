// Package bot はゲートウェイとスケジューラーから届くイベントを順番に処理する
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tattsum/timelord/internal/domain"
)

// CommandHandler はコマンドを処理する
type CommandHandler interface {
	Handle(ctx context.Context, cmd domain.Command) error
}

// AttendanceRefresher はイベントメッセージの出欠表示を更新する
type AttendanceRefresher interface {
	Refresh(ctx context.Context, ref domain.MessageRef) error
}

// ReminderSender はリマインダーを送る
type ReminderSender interface {
	Dispatch(ctx context.Context, job domain.ScheduledJob) error
}

// Presence はボットがオンラインのときに設定するプレゼンス
const Presence = "auto"

// Options はBotの依存関係
type Options struct {
	Bus        EventBus
	Commands   CommandHandler
	Attendance AttendanceRefresher
	Reminders  ReminderSender
	Presence   domain.PresenceRepository
	Self       domain.Identity
	Logger     *slog.Logger
}

// Bot はイベントバスから1件ずつイベントを取り出して処理する
type Bot struct {
	opts   Options
	logger *slog.Logger
}

// New は新しいBotを作成する
func New(opts Options) *Bot {
	return &Bot{
		opts:   opts,
		logger: opts.Logger,
	}
}

// Run はctxがキャンセルされるか、バスが閉じられるまでイベントを処理する
func (b *Bot) Run(ctx context.Context) error {
	if b.opts.Bus == nil || b.opts.Commands == nil || b.opts.Attendance == nil || b.opts.Reminders == nil {
		return errors.New("bot requires Bus, Commands, Attendance and Reminders")
	}

	events := b.opts.Bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			b.dispatch(ctx, event)
		}
	}
}

// dispatch は1件のイベントを処理する。失敗はそのイベントだけで完結させる
func (b *Bot) dispatch(ctx context.Context, event domain.Event) {
	logger := b.logger.With("event_id", event.ID, "kind", event.Kind)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("イベント処理中にpanicが発生しました", "panic", r)
		}
	}()

	err := b.handle(ctx, event)
	switch {
	case err == nil:
		logger.Debug("イベントを処理しました")
	case domain.IsStale(err):
		logger.Warn("参照先が見つからないため更新をスキップしました", "error", err)
	default:
		logger.Error("イベント処理エラー", "error", err)
	}
}

func (b *Bot) handle(ctx context.Context, event domain.Event) error {
	switch event.Kind {
	case domain.EventReady:
		return b.onReady(ctx)
	case domain.EventCommand:
		if event.Command == nil {
			return fmt.Errorf("command event without payload")
		}
		return b.opts.Commands.Handle(ctx, *event.Command)
	case domain.EventReactionAdded, domain.EventReactionRemoved:
		if event.Reaction == nil {
			return fmt.Errorf("reaction event without payload")
		}
		return b.onReaction(ctx, *event.Reaction)
	case domain.EventReminderDue:
		if event.Job == nil {
			return fmt.Errorf("reminder event without payload")
		}
		return b.opts.Reminders.Dispatch(ctx, *event.Job)
	default:
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}
}

func (b *Bot) onReady(ctx context.Context) error {
	if b.opts.Presence != nil {
		if err := b.opts.Presence.SetPresence(ctx, Presence); err != nil {
			return fmt.Errorf("プレゼンス設定エラー: %w", err)
		}
	}
	b.logger.Info("ログインしました", "user", b.opts.Self.Name, "uid", b.opts.Self.UserID, "team", b.opts.Self.TeamID)
	b.logger.Info("ボットの準備ができました")
	return nil
}

// onReaction はボット自身のリアクションを無視して出欠表示を更新する
func (b *Bot) onReaction(ctx context.Context, reaction domain.ReactionEvent) error {
	if reaction.UserID == b.opts.Self.UserID {
		return nil
	}
	b.logger.Debug("リアクションを受け取りました",
		"user", reaction.UserID,
		"emoji", reaction.Emoji,
		"channel", reaction.Message.ChannelID,
		"ts", reaction.Message.Timestamp)
	return b.opts.Attendance.Refresh(ctx, reaction.Message)
}
