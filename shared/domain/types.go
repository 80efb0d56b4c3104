package domain

import "github.com/google/uuid"

type (
	UserUUID     = uuid.UUID
	LineUserUUID = uuid.UUID
	BoardUUID    = uuid.UUID
	SubboardUUID = uuid.UUID
	MessageUUID  = uuid.UUID
	FormUUID     = uuid.UUID

	BoardID  = string // human-chosen, unique among live boards
	LineID   = string // messaging-platform user id
	Username = string
)

// UniqueUUIDs drops duplicates and keeps the first-seen order.
func UniqueUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
