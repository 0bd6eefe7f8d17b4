package slack

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// Slack APIのエラーコード
const (
	errMessageNotFound = "message_not_found"
	errChannelNotFound = "channel_not_found"
	errThreadNotFound  = "thread_not_found"
	errUserNotFound    = "user_not_found"
	errAlreadyReacted  = "already_reacted"
	errInvalidAuth     = "invalid_auth"
	errNotAuthed       = "not_authed"
	errTokenRevoked    = "token_revoked"
	errAccountInactive = "account_inactive"
)

// hasSlackError はSlack APIが指定したエラーコードを返したかチェック
func hasSlackError(err error, codes ...string) bool {
	if err == nil {
		return false
	}
	var resp slack.SlackErrorResponse
	if errors.As(err, &resp) {
		for _, code := range codes {
			if resp.Err == code {
				return true
			}
		}
		return false
	}
	msg := err.Error()
	for _, code := range codes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

// isRateLimitError はレート制限エラーかチェック
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return true
	}
	return strings.Contains(err.Error(), "rate limit exceeded")
}

// retryAfter はレート制限エラーから待機時間を取り出す
func retryAfter(err error) time.Duration {
	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	if err == nil {
		return 0
	}
	return time.Duration(extractRetryAfter(err.Error())) * time.Second
}

// extractRetryAfter はエラーメッセージからretry-after時間（秒）を抽出
func extractRetryAfter(errMsg string) int {
	if strings.Contains(errMsg, "retry after") {
		parts := strings.Split(errMsg, "retry after ")
		if len(parts) > 1 {
			timeStr := strings.TrimSpace(strings.TrimSuffix(parts[1], "s"))
			if retryAfter, err := strconv.Atoi(timeStr); err == nil {
				return retryAfter
			}
		}
	}
	return 0
}
