package domain

import (
	"slices"
	"time"
)

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	BoardID       BoardID
	BoardName     string
	Administrator UserUUID
}

type Board struct {
	BoardUUID     BoardUUID
	BoardID       BoardID
	BoardName     string
	Administrator User
	Members       []User
	Subboards     []Subboard
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func (b *Board) IsAdministrator(user UserUUID) bool {
	return b.Administrator.UserUUID == user
}

func (b *Board) IsMember(user UserUUID) bool {
	return slices.ContainsFunc(b.Members, func(m User) bool { return m.UserUUID == user })
}

type SubboardCreationData struct {
	BoardUUID    BoardUUID
	SubboardName string
}

type Subboard struct {
	SubboardUUID SubboardUUID
	BoardUUID    BoardUUID
	SubboardName string
	Members      []User
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
