package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tattsum/timelord/internal/domain"
)

// ユーザーに返す固定メッセージ
const (
	TimeFormatHint    = "please format your time like this: 19:30"
	NoEventsMessage   = "there are no upcoming events :thinking_face:"
	NotFoundMessage   = "command not found :disappointed:"
	DirectMessageDeny = "i don't accept direct messages :no_entry_sign:"
)

// Commands はチャットコマンド（help, add, events）を処理するサービス
type Commands struct {
	messageRepo domain.MessageRepository
	channelRepo domain.ChannelRepository
	jobs        JobScheduler
	emojis      domain.Emojis
	prefix      string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCommands は新しいCommandsサービスを作成する
func NewCommands(messageRepo domain.MessageRepository, channelRepo domain.ChannelRepository, jobs JobScheduler, emojis domain.Emojis, prefix string, logger *slog.Logger) *Commands {
	return &Commands{
		messageRepo: messageRepo,
		channelRepo: channelRepo,
		jobs:        jobs,
		emojis:      emojis,
		prefix:      prefix,
		now:         time.Now,
		logger:      logger,
	}
}

// Handle はコマンドを振り分ける
// DMでの利用と存在しないコマンドは固定メッセージを返して正常終了する
func (c *Commands) Handle(ctx context.Context, cmd domain.Command) error {
	if err := c.checkGroupContext(ctx, cmd); err != nil {
		if errors.Is(err, domain.ErrDirectMessage) {
			c.logger.Info("DMでのコマンドを拒否しました", "user", cmd.UserID, "command", cmd.Name)
			return c.messageRepo.Send(ctx, cmd.ChannelID, DirectMessageDeny)
		}
		return err
	}

	switch cmd.Name {
	case "help":
		return c.Help(ctx, cmd)
	case "add":
		return c.Add(ctx, cmd)
	case "events":
		return c.Events(ctx, cmd)
	default:
		c.logger.Warn("コマンドが見つかりません",
			"error", fmt.Errorf("%q: %w", cmd.Name, domain.ErrUnknownCommand),
			"user", cmd.UserID)
		return c.messageRepo.Send(ctx, cmd.ChannelID, NotFoundMessage)
	}
}

// Help は使い方を送る
func (c *Commands) Help(ctx context.Context, cmd domain.Command) error {
	return c.messageRepo.Send(ctx, cmd.ChannelID, c.helpText())
}

// Add はイベントを作成し、出欠用のリアクションを付けてリマインダーを予約する
func (c *Commands) Add(ctx context.Context, cmd domain.Command) error {
	timeArg, topic := splitFirst(cmd.Args)
	fireTime, err := domain.ParseClock(timeArg, c.now())
	if err == nil && topic == "" {
		err = fmt.Errorf("イベント名がありません: %w", domain.ErrInvalidTime)
	}
	if err != nil {
		c.logger.Info("イベントの形式が不正です", "args", cmd.Args, "error", err)
		return c.messageRepo.Send(ctx, cmd.ChannelID, TimeFormatHint)
	}

	title := domain.EventTitle(fireTime, topic)
	summary := domain.NewSummary(title, c.emojis, domain.AttendanceView{})
	ref, err := c.messageRepo.PostSummary(ctx, cmd.ChannelID, summary)
	if err != nil {
		return fmt.Errorf("イベント投稿エラー: %w", err)
	}

	// 投稿できた時点で予約する。リアクションの追加に失敗してもイベントとリマインダーは残る
	job := c.jobs.Schedule(domain.ScheduledJob{
		FireTime: fireTime,
		Topic:    topic,
		Message:  ref,
	})
	c.logger.Info("イベントを作成しました",
		"job_id", job.ID,
		"topic", topic,
		"fire_time", fireTime,
		"channel", ref.ChannelID,
		"ts", ref.Timestamp,
		"user", cmd.UserID)

	if err := c.messageRepo.AddReactions(ctx, ref, c.emojis.All()); err != nil {
		return fmt.Errorf("リアクション追加エラー(job_id=%s, ts=%s): %w", job.ID, ref.Timestamp, err)
	}
	return nil
}

// Events は予約中のイベントを時刻順に一覧表示する
func (c *Commands) Events(ctx context.Context, cmd domain.Command) error {
	jobs := c.jobs.Upcoming()
	if len(jobs) == 0 {
		return c.messageRepo.Send(ctx, cmd.ChannelID, NoEventsMessage)
	}

	var b strings.Builder
	for _, job := range jobs {
		fmt.Fprintf(&b, "*[%s]* %s\n", job.TimeLabel(), job.Topic)
	}
	return c.messageRepo.Send(ctx, cmd.ChannelID, b.String())
}

// checkGroupContext はコマンドがグループ内で使われたかを確認する
// イベントにチャンネル種別が無い場合はチャンネル情報を取得して判定する
func (c *Commands) checkGroupContext(ctx context.Context, cmd domain.Command) error {
	if cmd.ChannelType != "" {
		if !domain.IsGroupChannelType(cmd.ChannelType) {
			return domain.ErrDirectMessage
		}
		return nil
	}

	channel, err := c.channelRepo.FindByID(ctx, cmd.ChannelID)
	if err != nil {
		return fmt.Errorf("チャンネル情報取得エラー: %w", err)
	}
	if !channel.IsGroupContext() {
		return domain.ErrDirectMessage
	}
	return nil
}

func (c *Commands) helpText() string {
	return ":clock3: *Hi, I'm timelord!*\n" +
		"I can help you track attendance for events and remind everyone who voted 'yes' or 'maybe' when it starts.\n\n" +
		":speech_balloon: *Commands*\n" +
		"`" + c.prefix + "add HH:MM event title` add an event\n" +
		"`" + c.prefix + "events` list upcoming events"
}

// splitFirst は最初の単語と残りに分ける
func splitFirst(s string) (first, rest string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), first))
	return first, rest
}
