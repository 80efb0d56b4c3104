package domain

import "time"

type LineUser struct {
	LineUserUUID      LineUserUUID
	UserID            LineID
	ConversationState ConversationState
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

type User struct {
	UserUUID       UserUUID
	Username       Username
	HashedPassword string
	DisplayName    *string
	LineUser       *LineUser
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Name is what other people see: the display name when set, the username otherwise.
func (u User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

// LineID returns the linked platform id, or "" when the account is not linked.
func (u User) LineID() LineID {
	if u.LineUser == nil {
		return ""
	}
	return u.LineUser.UserID
}

type SignupData struct {
	Username     Username
	Password     string
	LineUserUUID *LineUserUUID
}

type Credentials struct {
	Username Username
	Password string
}
