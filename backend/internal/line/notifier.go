package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/logger"
	"github.com/mosacup/webboard/shared/middleware/metrics"
)

// MulticastLimit is the most recipients one multicast call accepts.
const MulticastLimit = 500

// Notifier delivers board items and chat replies through the Messaging API.
type Notifier struct {
	api API
}

func NewNotifier(api API) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) NotifyMessage(ctx context.Context, msg domain.Message, to []domain.LineID) error {
	if len(to) == 0 {
		return nil
	}
	flex, err := MessageFlex(msg)
	if err != nil {
		return err
	}
	return n.multicast(ctx, metrics.KindMessage, to, flex)
}

func (n *Notifier) NotifyForm(ctx context.Context, form domain.Form, to []domain.LineID) error {
	if len(to) == 0 {
		return nil
	}
	flex, err := FormFlex(form)
	if err != nil {
		return err
	}
	return n.multicast(ctx, metrics.KindForm, to, flex)
}

// NotifyDirectMessage pushes dm to its recipient when they have a linked account.
func (n *Notifier) NotifyDirectMessage(ctx context.Context, dm domain.DirectMessage) error {
	to := dm.SendTo.LineID()
	if to == "" {
		return nil
	}
	flex, err := DirectMessageFlex(dm)
	if err != nil {
		return err
	}
	err = n.api.Push(ctx, to, flex)
	metrics.RecordNotification(metrics.KindDirectMessage, 1, err)
	if err != nil {
		return fmt.Errorf("push direct message: %w", err)
	}
	return nil
}

// multicast sends in chunks of MulticastLimit. It keeps going after a failed
// chunk and returns the first error.
func (n *Notifier) multicast(ctx context.Context, kind string, to []domain.LineID, msg linebot.SendingMessage) error {
	var firstErr error
	for start := 0; start < len(to); start += MulticastLimit {
		end := min(start+MulticastLimit, len(to))
		chunk := to[start:end]
		err := n.api.Multicast(ctx, chunk, msg)
		metrics.RecordNotification(kind, len(chunk), err)
		if err != nil {
			logger.Log.Error("multicast failed", "kind", kind, "recipients", len(chunk), "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("multicast %s: %w", kind, err)
			}
		}
	}
	return firstErr
}

// ReplyText answers a chat event. Without a reply token the text is pushed instead.
func (n *Notifier) ReplyText(ctx context.Context, replyToken string, to domain.LineID, text string) error {
	return n.reply(ctx, replyToken, to, linebot.NewTextMessage(text))
}

func (n *Notifier) ReplyBoards(ctx context.Context, replyToken string, to domain.LineID, boards []domain.Board) error {
	flex, err := BoardsFlex(boards)
	if err != nil {
		return err
	}
	return n.reply(ctx, replyToken, to, flex)
}

func (n *Notifier) ReplyDirectMessages(ctx context.Context, replyToken string, to domain.LineID, dms []domain.DirectMessage) error {
	flex, err := DirectMessagesFlex(dms)
	if err != nil {
		return err
	}
	return n.reply(ctx, replyToken, to, flex)
}

func (n *Notifier) reply(ctx context.Context, replyToken string, to domain.LineID, msg linebot.SendingMessage) error {
	var err error
	if replyToken != "" {
		err = n.api.Reply(ctx, replyToken, msg)
	} else {
		err = n.api.Push(ctx, to, msg)
	}
	metrics.RecordNotification(metrics.KindReply, 1, err)
	if err != nil {
		return fmt.Errorf("reply to %s: %w", to, err)
	}
	return nil
}
