package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageCreationData struct {
	BoardUUID         BoardUUID
	SubboardUUIDs     []SubboardUUID
	Body              string
	ScheduledSendTime *time.Time
}

type Message struct {
	MessageUUID       MessageUUID
	Board             Board // summary: uuid, id, name
	Subboards         []Subboard
	Body              string
	SendTime          *time.Time
	ScheduledSendTime *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

type DirectMessageCreationData struct {
	SendFrom          UserUUID
	SendTo            []UserUUID
	Body              string
	ScheduledSendTime *time.Time
}

type DirectMessage struct {
	DirectMessageUUID uuid.UUID
	SendFrom          User
	SendTo            User
	Body              string
	SendTime          *time.Time
	ScheduledSendTime *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}
