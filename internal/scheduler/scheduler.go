// Package scheduler はプロセス内で動くワンショットのジョブテーブル
//
// ジョブは実行時刻の昇順に並ぶヒープで管理され、1つのタイマーgoroutineが
// 期限の来たジョブを取り出してハンドラーに渡す。永続化はしない。
package scheduler

import (
	"container/heap"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler は期限の来たジョブを受け取る関数
type Handler[T any] func(ctx context.Context, job Job[T])

// Job はジョブテーブルの1エントリ
type Job[T any] struct {
	ID      uuid.UUID
	RunAt   time.Time
	Payload T

	seq uint64
}

// Scheduler はワンショットジョブのテーブル
type Scheduler[T any] struct {
	handler Handler[T]
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	queue jobQueue[T]
	seq   uint64
	wake  chan struct{}
}

// New は新しいSchedulerを作成する
func New[T any](handler Handler[T], logger *slog.Logger) *Scheduler[T] {
	return &Scheduler[T]{
		handler: handler,
		logger:  logger,
		now:     time.Now,
		wake:    make(chan struct{}, 1),
	}
}

// Add はジョブを登録する。過去の時刻は次の機会にすぐ実行される
func (s *Scheduler[T]) Add(runAt time.Time, payload T) Job[T] {
	s.mu.Lock()
	s.seq++
	job := &Job[T]{
		ID:      uuid.New(),
		RunAt:   runAt,
		Payload: payload,
		seq:     s.seq,
	}
	heap.Push(&s.queue, job)
	s.mu.Unlock()

	s.logger.Debug("ジョブを登録しました", "job_id", job.ID, "run_at", runAt)
	s.notify()
	return *job
}

// Jobs は未実行のジョブを実行時刻の昇順で返す
func (s *Scheduler[T]) Jobs() []Job[T] {
	s.mu.Lock()
	jobs := make([]Job[T], 0, len(s.queue))
	for _, j := range s.queue {
		jobs = append(jobs, *j)
	}
	s.mu.Unlock()

	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].before(&jobs[k])
	})
	return jobs
}

// Len は未実行のジョブ数を返す
func (s *Scheduler[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Run はctxがキャンセルされるまでジョブを実行し続ける
func (s *Scheduler[T]) Run(ctx context.Context) error {
	s.logger.Info("スケジューラーを開始しました")
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		for _, job := range s.popDue() {
			s.logger.Info("ジョブを実行します", "job_id", job.ID, "run_at", job.RunAt)
			s.handler(ctx, job)
		}

		wait, ok := s.untilNext()
		if !ok {
			wait = time.Hour
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			s.logger.Info("スケジューラーを停止しました", "pending", s.Len())
			return nil
		case <-s.wake:
		case <-timer.C:
		}
	}
}

// popDue は期限の来たジョブをテーブルから取り除いて返す
func (s *Scheduler[T]) popDue() []Job[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var due []Job[T]
	for len(s.queue) > 0 && !s.queue[0].RunAt.After(now) {
		job := heap.Pop(&s.queue).(*Job[T])
		due = append(due, *job)
	}
	return due
}

func (s *Scheduler[T]) untilNext() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return 0, false
	}
	d := s.queue[0].RunAt.Sub(s.now())
	if d < 0 {
		d = 0
	}
	return d, true
}

func (s *Scheduler[T]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (j *Job[T]) before(other *Job[T]) bool {
	if j.RunAt.Equal(other.RunAt) {
		return j.seq < other.seq
	}
	return j.RunAt.Before(other.RunAt)
}

// jobQueue は実行時刻順のヒープ
type jobQueue[T any] []*Job[T]

func (q jobQueue[T]) Len() int           { return len(q) }
func (q jobQueue[T]) Less(i, j int) bool { return q[i].before(q[j]) }
func (q jobQueue[T]) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *jobQueue[T]) Push(x any) {
	*q = append(*q, x.(*Job[T]))
}

func (q *jobQueue[T]) Pop() any {
	old := *q
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return job
}
