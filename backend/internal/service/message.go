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

type MessageService interface {
	List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error)
	Get(ctx context.Context, user domain.User, board, message uuid.UUID) (domain.Message, error)
	Create(ctx context.Context, user domain.User, data domain.MessageCreationData) (domain.Message, error)
	Delete(ctx context.Context, user domain.User, board, message uuid.UUID) error
	Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error)
}

type Message struct {
	storage  MessageStorage
	notifier Notifier
}

type MessageStorage interface {
	BoardGetter
	SubboardChecker
	RecipientLineIDs(ctx context.Context, subboards []uuid.UUID) ([]domain.LineID, error)
	CreateMessage(ctx context.Context, data domain.MessageCreationData) (domain.Message, error)
	GetMessages(ctx context.Context, board uuid.UUID) ([]domain.Message, error)
	GetMessage(ctx context.Context, board, message uuid.UUID) (domain.Message, error)
	GetMyMessages(ctx context.Context, user, board uuid.UUID) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, board, message uuid.UUID) error
	MarkMessageSent(ctx context.Context, message uuid.UUID, at time.Time) error
}

func NewMessage(storage MessageStorage, notifier Notifier) *Message {
	return &Message{storage: storage, notifier: notifier}
}

func (m *Message) List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error) {
	if _, err := administeredBoard(ctx, m.storage, user, board); err != nil {
		return nil, err
	}
	return nonEmpty(m.storage.GetMessages(ctx, board))
}

func (m *Message) Get(ctx context.Context, user domain.User, board, message uuid.UUID) (domain.Message, error) {
	if _, err := administeredBoard(ctx, m.storage, user, board); err != nil {
		return domain.Message{}, err
	}
	return m.storage.GetMessage(ctx, board, message)
}

// Create stores the message and, unless it is scheduled, sends it to every
// linked member of the target subboards and stamps its send time.
func (m *Message) Create(ctx context.Context, user domain.User, data domain.MessageCreationData) (domain.Message, error) {
	if _, err := administeredBoard(ctx, m.storage, user, data.BoardUUID); err != nil {
		return domain.Message{}, err
	}
	data.Body = utils.SanitizeText(data.Body)
	if data.Body == "" {
		return domain.Message{}, errors.BadRequest("Message body is empty")
	}
	subboards, err := checkSubboards(ctx, m.storage, data.BoardUUID, data.SubboardUUIDs)
	if err != nil {
		return domain.Message{}, err
	}
	data.SubboardUUIDs = subboards

	msg, err := m.storage.CreateMessage(ctx, data)
	if err != nil {
		return domain.Message{}, err
	}
	if msg.ScheduledSendTime != nil {
		logger.Log.Info("message scheduled", "message_uuid", msg.MessageUUID, "at", *msg.ScheduledSendTime)
		return msg, nil
	}

	recipients, err := m.storage.RecipientLineIDs(ctx, subboards)
	if err != nil {
		logger.Log.Error("failed to resolve message recipients", "message_uuid", msg.MessageUUID, "error", err)
	} else if err := m.notifier.NotifyMessage(ctx, msg, recipients); err != nil {
		logger.Log.Error("failed to deliver message", "message_uuid", msg.MessageUUID, "recipients", len(recipients), "error", err)
	}

	sentAt := nowFunc()
	if err := m.storage.MarkMessageSent(ctx, msg.MessageUUID, sentAt); err != nil {
		logger.Log.Error("failed to stamp message send time", "message_uuid", msg.MessageUUID, "error", err)
		return msg, nil
	}
	msg.SendTime = &sentAt
	return msg, nil
}

func (m *Message) Delete(ctx context.Context, user domain.User, board, message uuid.UUID) error {
	if _, err := administeredBoard(ctx, m.storage, user, board); err != nil {
		return err
	}
	return m.storage.DeleteMessage(ctx, board, message)
}

// Mine lists the messages addressed to a subboard the caller belongs to.
func (m *Message) Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error) {
	if _, err := memberBoard(ctx, m.storage, user, board); err != nil {
		return nil, err
	}
	return nonEmpty(m.storage.GetMyMessages(ctx, user.UserUUID, board))
}
