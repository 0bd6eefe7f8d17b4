package service

import (
	"context"
	"log/slog"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/Tattsum/timelord/internal/scheduler"
)

// JobScheduler はリマインダーの予約を扱うインターフェース
type JobScheduler interface {
	Schedule(job domain.ScheduledJob) domain.ScheduledJob
	Upcoming() []domain.ScheduledJob
}

// EventScheduler はイベントのリマインダーをジョブテーブルに登録するサービス
type EventScheduler struct {
	table  *scheduler.Scheduler[domain.ScheduledJob]
	logger *slog.Logger
}

// NewEventScheduler は新しいEventSchedulerを作成する
// fireは予約時刻になったジョブごとに1回だけ呼ばれる
func NewEventScheduler(fire func(ctx context.Context, job domain.ScheduledJob), logger *slog.Logger) *EventScheduler {
	handler := func(ctx context.Context, job scheduler.Job[domain.ScheduledJob]) {
		fire(ctx, toScheduledJob(job))
	}
	return &EventScheduler{
		table:  scheduler.New[domain.ScheduledJob](handler, logger),
		logger: logger,
	}
}

// Schedule はリマインダーを予約する。過去の時刻でもエラーにはせず、すぐに実行される
func (s *EventScheduler) Schedule(job domain.ScheduledJob) domain.ScheduledJob {
	scheduled := toScheduledJob(s.table.Add(job.FireTime, job))
	s.logger.Info("リマインダーを予約しました",
		"job_id", scheduled.ID,
		"fire_time", scheduled.FireTime,
		"topic", scheduled.Topic)
	return scheduled
}

// Upcoming は未実行のリマインダーを時刻の昇順で返す
func (s *EventScheduler) Upcoming() []domain.ScheduledJob {
	jobs := s.table.Jobs()
	upcoming := make([]domain.ScheduledJob, 0, len(jobs))
	for _, job := range jobs {
		upcoming = append(upcoming, toScheduledJob(job))
	}
	return upcoming
}

// Run はctxがキャンセルされるまでジョブテーブルを動かす
func (s *EventScheduler) Run(ctx context.Context) error {
	return s.table.Run(ctx)
}

func toScheduledJob(job scheduler.Job[domain.ScheduledJob]) domain.ScheduledJob {
	scheduled := job.Payload
	scheduled.ID = job.ID
	scheduled.FireTime = job.RunAt
	return scheduled
}
