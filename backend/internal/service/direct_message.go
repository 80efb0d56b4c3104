package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/backend/internal/utils"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/logger"
)

type DirectMessageService interface {
	Sent(ctx context.Context, user domain.User) ([]domain.DirectMessage, error)
	Received(ctx context.Context, user domain.User) ([]domain.DirectMessage, error)
	Create(ctx context.Context, user domain.User, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error)
	Delete(ctx context.Context, user domain.User, id uuid.UUID) error
}

type DirectMessage struct {
	storage  DirectMessageStorage
	notifier Notifier
}

type DirectMessageStorage interface {
	CreateDirectMessages(ctx context.Context, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error)
	GetSentDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error)
	GetReceivedDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error)
	GetDirectMessage(ctx context.Context, id uuid.UUID) (domain.DirectMessage, error)
	DeleteDirectMessage(ctx context.Context, id uuid.UUID) error
	MarkDirectMessageSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

func NewDirectMessage(storage DirectMessageStorage, notifier Notifier) *DirectMessage {
	return &DirectMessage{storage: storage, notifier: notifier}
}

func (d *DirectMessage) Sent(ctx context.Context, user domain.User) ([]domain.DirectMessage, error) {
	return nonEmpty(d.storage.GetSentDirectMessages(ctx, user.UserUUID))
}

func (d *DirectMessage) Received(ctx context.Context, user domain.User) ([]domain.DirectMessage, error) {
	return nonEmpty(d.storage.GetReceivedDirectMessages(ctx, user.UserUUID))
}

// Create stores one direct message per recipient. Unscheduled ones are pushed
// to linked recipients right away.
func (d *DirectMessage) Create(ctx context.Context, user domain.User, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error) {
	data.Body = utils.SanitizeText(data.Body)
	if data.Body == "" {
		return nil, errors.BadRequest("Message body is empty")
	}
	if len(data.SendTo) == 0 {
		return nil, errors.BadRequest("No recipients")
	}
	data.SendFrom = user.UserUUID

	dms, err := d.storage.CreateDirectMessages(ctx, data)
	if err != nil {
		return nil, err
	}
	if data.ScheduledSendTime != nil {
		return dms, nil
	}

	for i := range dms {
		if err := d.notifier.NotifyDirectMessage(ctx, dms[i]); err != nil {
			logger.Log.Error("failed to deliver direct message", "direct_message_uuid", dms[i].DirectMessageUUID, "error", err)
		}
		sentAt := nowFunc()
		if err := d.storage.MarkDirectMessageSent(ctx, dms[i].DirectMessageUUID, sentAt); err != nil {
			logger.Log.Error("failed to stamp direct message send time", "direct_message_uuid", dms[i].DirectMessageUUID, "error", err)
			continue
		}
		dms[i].SendTime = &sentAt
	}
	return dms, nil
}

// Delete is allowed for the sender only.
func (d *DirectMessage) Delete(ctx context.Context, user domain.User, id uuid.UUID) error {
	dm, err := d.storage.GetDirectMessage(ctx, id)
	if err != nil {
		return err
	}
	if dm.SendFrom.UserUUID != user.UserUUID {
		return errors.Forbidden("Not the sender")
	}
	return d.storage.DeleteDirectMessage(ctx, id)
}
