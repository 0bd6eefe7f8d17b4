package bot

import (
	"context"
	"log/slog"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/google/uuid"
)

// EventBus はイベントを発行・購読するインターフェース
type EventBus interface {
	Publish(event domain.Event)
	PublishContext(ctx context.Context, event domain.Event) error
	Subscribe() <-chan domain.Event
	Close()
}

// DefaultBufferSize はInMemoryBusのバッファサイズ
const DefaultBufferSize = 256

// InMemoryBus はバッファ付きチャネルによるプロセス内のイベントバス
type InMemoryBus struct {
	ch     chan domain.Event
	logger *slog.Logger
}

// NewInMemoryBus は新しいInMemoryBusを作成する
func NewInMemoryBus(size int, logger *slog.Logger) *InMemoryBus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &InMemoryBus{
		ch:     make(chan domain.Event, size),
		logger: logger,
	}
}

// Publish はブロックせずにイベントを送る。バッファが一杯の場合は破棄して警告を出す
func (b *InMemoryBus) Publish(event domain.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	select {
	case b.ch <- event:
	default:
		b.logger.Warn("イベントバスが一杯のためイベントを破棄しました", "event_id", event.ID, "kind", event.Kind)
	}
}

// PublishContext はイベントがバッファに入るかctxが終わるまで待つ
// 取りこぼすと再送されないイベント（リマインダー）に使う
func (b *InMemoryBus) PublishContext(ctx context.Context, event domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe は内部のチャネルを返す。何度呼んでも同じチャネル
func (b *InMemoryBus) Subscribe() <-chan domain.Event {
	return b.ch
}

// Close はチャネルを閉じて受信側のループを終わらせる
// 発行側がすべて止まってから呼ぶこと
func (b *InMemoryBus) Close() {
	close(b.ch)
}

// ReminderPublisher はスケジューラーから呼ばれ、期限の来たジョブをバスに流す関数を返す
// バスが一杯でも破棄せず、空きが出るまで待つ
func ReminderPublisher(bus EventBus, logger *slog.Logger) func(ctx context.Context, job domain.ScheduledJob) {
	return func(ctx context.Context, job domain.ScheduledJob) {
		err := bus.PublishContext(ctx, domain.Event{
			ID:   job.ID.String(),
			Kind: domain.EventReminderDue,
			Job:  &job,
		})
		if err != nil {
			logger.Error("リマインダーをバスに送れませんでした", "job_id", job.ID, "topic", job.Topic, "error", err)
		}
	}
}
