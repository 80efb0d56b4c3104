package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
)

// Request DTOs

type CreateMessageRequest struct {
	SubboardUUIDs     []uuid.UUID `json:"subboard_uuids" validate:"required"`
	Body              string      `json:"body" validate:"required,max=5000"`
	ScheduledSendTime *time.Time  `json:"scheduled_send_time,omitempty"`
}

type CreateDirectMessageRequest struct {
	SendToUUIDs       []uuid.UUID `json:"send_to_uuids" validate:"required,min=1"`
	Body              string      `json:"body" validate:"required,max=5000"`
	ScheduledSendTime *time.Time  `json:"scheduled_send_time,omitempty"`
}

// Response DTOs

type MessageResponse struct {
	MessageUUID       uuid.UUID          `json:"message_uuid"`
	Board             BoardResponse      `json:"board"`
	Subboards         []SubboardResponse `json:"subboards"`
	Body              string             `json:"body"`
	SendTime          *time.Time         `json:"send_time"`
	ScheduledSendTime *time.Time         `json:"scheduled_send_time"`
	CreatedAt         time.Time          `json:"created_at"`
}

type DirectMessageResponse struct {
	DirectMessageUUID uuid.UUID    `json:"direct_message_uuid"`
	SendFrom          UserResponse `json:"send_from"`
	SendTo            UserResponse `json:"send_to"`
	Body              string       `json:"body"`
	SendTime          *time.Time   `json:"send_time"`
	ScheduledSendTime *time.Time   `json:"scheduled_send_time"`
	CreatedAt         time.Time    `json:"created_at"`
}

func NewMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		MessageUUID:       m.MessageUUID,
		Board:             NewBoardResponse(m.Board),
		Subboards:         mapSlice(m.Subboards, NewSubboardResponse),
		Body:              m.Body,
		SendTime:          m.SendTime,
		ScheduledSendTime: m.ScheduledSendTime,
		CreatedAt:         m.CreatedAt,
	}
}

func NewMessageResponses(messages []domain.Message) []MessageResponse {
	return mapSlice(messages, NewMessageResponse)
}

func NewDirectMessageResponse(dm domain.DirectMessage) DirectMessageResponse {
	return DirectMessageResponse{
		DirectMessageUUID: dm.DirectMessageUUID,
		SendFrom:          NewUserResponse(dm.SendFrom),
		SendTo:            NewUserResponse(dm.SendTo),
		Body:              dm.Body,
		SendTime:          dm.SendTime,
		ScheduledSendTime: dm.ScheduledSendTime,
		CreatedAt:         dm.CreatedAt,
	}
}

func NewDirectMessageResponses(dms []domain.DirectMessage) []DirectMessageResponse {
	return mapSlice(dms, NewDirectMessageResponse)
}
