package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind はボットが受け取るイベントの種類
type EventKind string

const (
	EventReady           EventKind = "ready"
	EventCommand         EventKind = "command"
	EventReactionAdded   EventKind = "reaction_added"
	EventReactionRemoved EventKind = "reaction_removed"
	EventReminderDue     EventKind = "reminder_due"
)

// Event はゲートウェイやスケジューラーからボットに届くイベント
// Kindに応じてCommand, Reaction, Jobのいずれかが設定される
type Event struct {
	ID       string
	Kind     EventKind
	Command  *Command
	Reaction *ReactionEvent
	Job      *ScheduledJob
}

// ReactionEvent はリアクションの追加・削除を表す
type ReactionEvent struct {
	UserID  string
	Emoji   string
	Message MessageRef
}

// Command はユーザーが送ったコマンド
type Command struct {
	Name        string
	Args        string // コマンド名以降の生の文字列
	UserID      string
	ChannelID   string
	ChannelType string // 空の場合は不明
}

// ParseCommand はプレフィックス付きのテキストからコマンド名と引数を取り出す
func ParseCommand(prefix, text string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	body := strings.TrimPrefix(text, prefix)
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return "", "", false
	}
	name = fields[0]
	if !strings.HasPrefix(body, name) {
		// プレフィックスの直後が空白の場合はコマンドとみなさない
		return "", "", false
	}
	args = strings.TrimSpace(strings.TrimPrefix(body, name))
	return name, args, true
}

// ScheduledJob はリマインダーの予約
type ScheduledJob struct {
	ID       uuid.UUID
	FireTime time.Time
	Topic    string
	Message  MessageRef
}

// TimeLabel は予約時刻を HH:MM 形式で返す
func (j *ScheduledJob) TimeLabel() string {
	return j.FireTime.Format(ClockLayout)
}

// ClockLayout はイベント時刻の入出力形式
const ClockLayout = "15:04"

// EventTitle はイベントメッセージのタイトルを作る（例: "[19:30] Movie Night"）
func EventTitle(fireTime time.Time, topic string) string {
	return "[" + fireTime.Format(ClockLayout) + "] " + topic
}

// ParseClock は HH:MM を解析し、nowと同じ日付のローカル時刻にして返す
func ParseClock(value string, now time.Time) (time.Time, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}
