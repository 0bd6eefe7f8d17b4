// Package config はボットの設定を環境変数とフラグから読み込む
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/urfave/cli/v2"
)

// デフォルト値
const (
	DefaultCommandPrefix = "!"
	DefaultEmojiYes      = "white_check_mark"
	DefaultEmojiMaybe    = "grey_question"
	DefaultEmojiNo       = "x"
	DefaultLogLevel      = "info"
)

const appTokenPrefix = "xapp-"

// Config はボットの実行設定
type Config struct {
	Token         string
	AppToken      string
	CommandPrefix string
	EmojiYes      string
	EmojiMaybe    string
	EmojiNo       string
	LogLevel      string
	Debug         bool
}

// Flags は設定を受け取るCLIフラグを返す。各フラグは環境変数でも指定できる
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "token", Usage: "Slack bot token (xoxb-)", EnvVars: []string{"TL_TOKEN"}},
		&cli.StringFlag{Name: "app-token", Usage: "Slack app-level token for Socket Mode (xapp-)", EnvVars: []string{"TL_APP_TOKEN"}},
		&cli.StringFlag{Name: "prefix", Value: DefaultCommandPrefix, Usage: "command prefix", EnvVars: []string{"TL_COMMAND_PREFIX"}},
		&cli.StringFlag{Name: "emoji-yes", Value: DefaultEmojiYes, Usage: "reaction meaning yes", EnvVars: []string{"TL_EMOJI_YES"}},
		&cli.StringFlag{Name: "emoji-maybe", Value: DefaultEmojiMaybe, Usage: "reaction meaning maybe", EnvVars: []string{"TL_EMOJI_MAYBE"}},
		&cli.StringFlag{Name: "emoji-no", Value: DefaultEmojiNo, Usage: "reaction meaning no", EnvVars: []string{"TL_EMOJI_NO"}},
		&cli.StringFlag{Name: "log-level", Value: DefaultLogLevel, Usage: "debug, info, warn or error", EnvVars: []string{"TL_LOG_LEVEL"}},
		&cli.BoolFlag{Name: "debug", Usage: "log Slack API traffic", EnvVars: []string{"TL_DEBUG"}},
	}
}

// FromContext はフラグの値からConfigを作成する
func FromContext(c *cli.Context) Config {
	return Config{
		Token:         strings.TrimSpace(c.String("token")),
		AppToken:      strings.TrimSpace(c.String("app-token")),
		CommandPrefix: c.String("prefix"),
		EmojiYes:      c.String("emoji-yes"),
		EmojiMaybe:    c.String("emoji-maybe"),
		EmojiNo:       c.String("emoji-no"),
		LogLevel:      c.String("log-level"),
		Debug:         c.Bool("debug"),
	}
}

// Validate は設定値をチェックする
func (c Config) Validate() error {
	var errs []error
	if c.Token == "" {
		errs = append(errs, errors.New("TL_TOKEN is required"))
	}
	if c.AppToken == "" {
		errs = append(errs, errors.New("TL_APP_TOKEN is required"))
	} else if !strings.HasPrefix(c.AppToken, appTokenPrefix) {
		errs = append(errs, fmt.Errorf("TL_APP_TOKEN must start with %q", appTokenPrefix))
	}
	if c.CommandPrefix == "" || strings.ContainsAny(c.CommandPrefix, " \t\r\n") {
		errs = append(errs, fmt.Errorf("invalid command prefix %q", c.CommandPrefix))
	}

	emojis := c.Emojis()
	seen := make(map[string]domain.Bucket, len(domain.Buckets))
	for _, bucket := range domain.Buckets {
		name := emojis.For(bucket)
		if name == "" {
			errs = append(errs, fmt.Errorf("emoji for %s is empty", bucket))
			continue
		}
		if other, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("emoji %q is used for both %s and %s", name, other, bucket))
			continue
		}
		seen[name] = bucket
	}

	return errors.Join(errs...)
}

// Emojis は正規化した出欠用の絵文字設定を返す
func (c Config) Emojis() domain.Emojis {
	return domain.NewEmojis(c.EmojiYes, c.EmojiMaybe, c.EmojiNo)
}

// NewLogger はレベル指定のテキストロガーを作成する
func NewLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
