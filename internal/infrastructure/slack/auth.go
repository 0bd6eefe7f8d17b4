package slack

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/codeGROOVE-dev/retry"
	"github.com/slack-go/slack"
)

var (
	authAttempts   uint = 5
	authRetryDelay      = time.Second
)

// NewClient はBotトークンとApp-Levelトークンを持つクライアントを作成する
func NewClient(botToken, appToken string, debug bool, options ...slack.Option) *slack.Client {
	opts := []slack.Option{
		slack.OptionAppLevelToken(appToken),
		slack.OptionDebug(debug),
	}
	opts = append(opts, options...)
	return slack.New(botToken, opts...)
}

// Authenticate はトークンを検証し、ボット自身のIDを返す
// 認証エラーは再試行せず、レート制限はRetry-Afterだけ待ってから再試行する
func Authenticate(ctx context.Context, client *slack.Client, logger *slog.Logger) (domain.Identity, error) {
	var identity domain.Identity

	err := retry.Do(
		func() error {
			resp, err := client.AuthTestContext(ctx)
			if err != nil {
				if hasSlackError(err, errInvalidAuth, errNotAuthed, errTokenRevoked, errAccountInactive) {
					return retry.Unrecoverable(fmt.Errorf("認証エラー: %w", err))
				}
				if isRateLimitError(err) {
					if waitErr := sleepContext(ctx, retryAfter(err)); waitErr != nil {
						return retry.Unrecoverable(waitErr)
					}
				}
				return fmt.Errorf("認証エラー: %w", err)
			}

			identity = domain.Identity{
				UserID: resp.UserID,
				BotID:  resp.BotID,
				TeamID: resp.TeamID,
				Name:   resp.User,
			}
			return nil
		},
		retry.Attempts(authAttempts),
		retry.Delay(authRetryDelay),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(authRetryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Slackへの接続を再試行します", "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return domain.Identity{}, err
	}

	logger.Info("認証しました", "user", identity.Name, "user_id", identity.UserID, "team_id", identity.TeamID)
	return identity, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
