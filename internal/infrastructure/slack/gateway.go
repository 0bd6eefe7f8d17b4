package slack

import (
	"context"
	"log/slog"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Publisher はゲートウェイが受け取ったイベントの送り先
type Publisher interface {
	Publish(event domain.Event)
}

// Gateway はSocket Modeのイベントをドメインイベントに変換してバスへ流す
type Gateway struct {
	socket *socketmode.Client
	bus    Publisher
	prefix string
	self   domain.Identity
	logger *slog.Logger
}

// NewGateway は新しいGatewayを作成する
func NewGateway(client *slack.Client, bus Publisher, prefix string, self domain.Identity, debug bool, logger *slog.Logger) *Gateway {
	return &Gateway{
		socket: socketmode.New(client, socketmode.OptionDebug(debug)),
		bus:    bus,
		prefix: prefix,
		self:   self,
		logger: logger,
	}
}

// Run はSocket Modeで接続し、contextがキャンセルされるまでイベントを受け取る
// 戻った時点でバスへの発行は止まっている
func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-g.socket.Events:
				if !ok {
					return
				}
				g.handleEvent(evt)
			}
		}
	}()

	err := g.socket.RunContext(ctx)
	cancel()
	<-done
	return err
}

func (g *Gateway) handleEvent(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		g.logger.Info("Socket Modeに接続しています")

	case socketmode.EventTypeConnected:
		g.logger.Info("Socket Modeに接続しました")
		g.bus.Publish(domain.Event{Kind: domain.EventReady})

	case socketmode.EventTypeConnectionError:
		g.logger.Warn("Socket Modeの接続エラー", "data", evt.Data)

	case socketmode.EventTypeEventsAPI:
		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			g.socket.Ack(*evt.Request)
		}
		if event, ok := g.translate(eventsAPIEvent); ok {
			g.bus.Publish(event)
		}
	}
}

// translate はEvents APIのイベントをドメインイベントに変換する
// 対象外のイベントはfalseを返す
func (g *Gateway) translate(event slackevents.EventsAPIEvent) (domain.Event, bool) {
	if event.Type != slackevents.CallbackEvent {
		return domain.Event{}, false
	}

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		return g.translateMessage(ev)

	case *slackevents.ReactionAddedEvent:
		return g.translateReaction(domain.EventReactionAdded, ev.User, ev.Reaction, ev.Item)

	case *slackevents.ReactionRemovedEvent:
		return g.translateReaction(domain.EventReactionRemoved, ev.User, ev.Reaction, ev.Item)
	}
	return domain.Event{}, false
}

func (g *Gateway) translateMessage(ev *slackevents.MessageEvent) (domain.Event, bool) {
	// 編集や削除などのサブタイプ、ボットの投稿は無視する
	if ev.SubType != "" || ev.BotID != "" || ev.User == "" || ev.User == g.self.UserID {
		return domain.Event{}, false
	}

	name, args, ok := domain.ParseCommand(g.prefix, ev.Text)
	if !ok {
		return domain.Event{}, false
	}

	return domain.Event{
		Kind: domain.EventCommand,
		Command: &domain.Command{
			Name:        name,
			Args:        args,
			UserID:      ev.User,
			ChannelID:   ev.Channel,
			ChannelType: ev.ChannelType,
		},
	}, true
}

func (g *Gateway) translateReaction(kind domain.EventKind, userID, emoji string, item slackevents.Item) (domain.Event, bool) {
	// メッセージ以外(ファイルなど)へのリアクションは無視する
	if item.Channel == "" || item.Timestamp == "" {
		return domain.Event{}, false
	}

	return domain.Event{
		Kind: kind,
		Reaction: &domain.ReactionEvent{
			UserID: userID,
			Emoji:  emoji,
			Message: domain.MessageRef{
				ChannelID: item.Channel,
				Timestamp: item.Timestamp,
			},
		},
	}, true
}
