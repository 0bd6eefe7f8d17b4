package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tattsum/timelord/internal/bot"
	"github.com/Tattsum/timelord/internal/config"
	slackinfra "github.com/Tattsum/timelord/internal/infrastructure/slack"
	"github.com/Tattsum/timelord/internal/service"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .envがなくてもエラーにしない
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "timelord",
		Usage:  "Slackでイベントを予約し、リアクションで出欠を集めてリマインドするボット",
		Flags:  config.Flags(),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("ボットが異常終了しました", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromContext(c)
	logger := config.NewLogger(cfg.LogLevel, os.Stderr)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定エラー: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== timelord 起動 ===", "prefix", cfg.CommandPrefix, "emojis", cfg.Emojis().All())

	client := slackinfra.NewClient(cfg.Token, cfg.AppToken, cfg.Debug)
	self, err := slackinfra.Authenticate(ctx, client, logger)
	if err != nil {
		return err
	}

	// リポジトリの初期化
	messageRepo := slackinfra.NewMessageRepository(client)
	userRepo := slackinfra.NewUserRepository(client)
	channelRepo := slackinfra.NewChannelRepository(client)
	presenceRepo := slackinfra.NewPresenceRepository(client)

	// サービスの初期化
	emojis := cfg.Emojis()
	bus := bot.NewInMemoryBus(bot.DefaultBufferSize, logger)
	jobs := service.NewEventScheduler(bot.ReminderPublisher(bus, logger), logger)
	attendance := service.NewAttendance(messageRepo, userRepo, emojis, self, logger)
	commands := service.NewCommands(messageRepo, channelRepo, jobs, emojis, cfg.CommandPrefix, logger)
	reminders := service.NewReminderDispatcher(messageRepo, attendance, logger)

	router := bot.New(bot.Options{
		Bus:        bus,
		Commands:   commands,
		Attendance: attendance,
		Reminders:  reminders,
		Presence:   presenceRepo,
		Self:       self,
		Logger:     logger,
	})
	gateway := slackinfra.NewGateway(client, bus, cfg.CommandPrefix, self, cfg.Debug, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gateway.Run(gctx) })
	g.Go(func() error { return jobs.Run(gctx) })
	g.Go(func() error { return router.Run(gctx) })

	err = g.Wait()
	bus.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("=== timelord 終了 ===")
	return nil
}
