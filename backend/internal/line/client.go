// Package line adapts the LINE Messaging API to the webboard domain: webhook
// parsing, flex notifications, chat replies and rich menu setup.
package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/mosacup/webboard/shared/config"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
)

// API is the subset of the Messaging API the backend calls.
type API interface {
	Multicast(ctx context.Context, to []string, messages ...linebot.SendingMessage) error
	Push(ctx context.Context, to string, messages ...linebot.SendingMessage) error
	Reply(ctx context.Context, replyToken string, messages ...linebot.SendingMessage) error
}

// Client wraps the SDK client.
type Client struct {
	bot *linebot.Client
}

func New(cfg *config.Config) (*Client, error) {
	var opts []linebot.ClientOption
	if cfg.Public.Line.APIEndpoint != "" {
		opts = append(opts, linebot.WithEndpointBase(cfg.Public.Line.APIEndpoint))
	}
	bot, err := linebot.New(cfg.Private.Line.ChannelSecret, cfg.Private.Line.ChannelAccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create line client: %w", err)
	}
	return &Client{bot: bot}, nil
}

func (c *Client) Multicast(ctx context.Context, to []string, messages ...linebot.SendingMessage) error {
	_, err := c.bot.Multicast(to, messages...).WithContext(ctx).Do()
	return err
}

func (c *Client) Push(ctx context.Context, to string, messages ...linebot.SendingMessage) error {
	_, err := c.bot.PushMessage(to, messages...).WithContext(ctx).Do()
	return err
}

func (c *Client) Reply(ctx context.Context, replyToken string, messages ...linebot.SendingMessage) error {
	_, err := c.bot.ReplyMessage(replyToken, messages...).WithContext(ctx).Do()
	return err
}

// ParseRequest verifies the X-Line-Signature header against the raw body and
// converts the events. A bad signature is a BadRequest.
func (c *Client) ParseRequest(r *http.Request) ([]domain.ChatEvent, error) {
	events, err := c.bot.ParseRequest(r)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			return nil, internal_errors.BadRequest("Invalid signature")
		}
		return nil, internal_errors.BadRequest("Invalid webhook body")
	}
	out := make([]domain.ChatEvent, 0, len(events))
	for _, e := range events {
		out = append(out, toChatEvent(e))
	}
	return out, nil
}

func toChatEvent(e *linebot.Event) domain.ChatEvent {
	ev := domain.ChatEvent{
		EventID:    e.WebhookEventID,
		ReplyToken: e.ReplyToken,
		Redelivery: e.DeliveryContext.IsRedelivery,
	}
	if e.Source != nil {
		ev.LineID = e.Source.UserID
	}
	switch e.Type {
	case linebot.EventTypeFollow:
		ev.Kind = domain.ChatEventFollow
	case linebot.EventTypeMessage:
		if msg, ok := e.Message.(*linebot.TextMessage); ok {
			ev.Kind = domain.ChatEventText
			ev.Text = msg.Text
		}
	}
	return ev
}
