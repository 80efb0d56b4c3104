package api

import (
	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
)

type LineUserResponse struct {
	LineUserUUID uuid.UUID `json:"line_user_uuid"`
	UserID       string    `json:"user_id"`
}

type UserResponse struct {
	UserUUID    uuid.UUID         `json:"user_uuid"`
	Username    string            `json:"username"`
	DisplayName *string           `json:"display_name"`
	LineUser    *LineUserResponse `json:"line_user"`
}

func NewUserResponse(u domain.User) UserResponse {
	resp := UserResponse{
		UserUUID:    u.UserUUID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
	if u.LineUser != nil {
		resp.LineUser = &LineUserResponse{LineUserUUID: u.LineUser.LineUserUUID, UserID: u.LineUser.UserID}
	}
	return resp
}

func NewUserResponses(users []domain.User) []UserResponse {
	return mapSlice(users, NewUserResponse)
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
