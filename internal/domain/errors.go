package domain

import "errors"

var (
	// ErrMessageNotFound は対象メッセージが削除済み、または取得できない場合のエラー
	ErrMessageNotFound = errors.New("message not found")
	// ErrUserNotFound はユーザーがワークスペースに存在しない場合のエラー
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidTime は時刻の形式が不正な場合のエラー
	ErrInvalidTime = errors.New("invalid time")
	// ErrUnknownCommand は存在しないコマンドのエラー
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDirectMessage はDMでコマンドが使われた場合のエラー
	ErrDirectMessage = errors.New("direct messages are not accepted")
)

// IsStale は参照先が消えたことによる（ログだけ残して捨ててよい）エラーかどうかを返す
func IsStale(err error) bool {
	return errors.Is(err, ErrMessageNotFound) || errors.Is(err, ErrUserNotFound)
}
