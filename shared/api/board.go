package api

import (
	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
)

// Request DTOs

type CreateBoardRequest struct {
	BoardID   string `json:"board_id" validate:"required,max=64"`
	BoardName string `json:"board_name" validate:"required,max=128"`
}

// Board ids are strings so that unresolvable entries can be dropped instead of failing the request.
type UpdateMyBoardsRequest struct {
	NewMyBoardUUIDs []string `json:"new_my_board_uuids" validate:"required"`
}

type CreateSubboardRequest struct {
	SubboardName string `json:"subboard_name" validate:"required,max=128"`
}

type UpdateMySubboardsRequest struct {
	NewMySubboardUUIDs []string `json:"new_my_subboard_uuids" validate:"required"`
}

// Response DTOs

type SubboardResponse struct {
	SubboardUUID uuid.UUID      `json:"subboard_uuid"`
	SubboardName string         `json:"subboard_name"`
	Members      []UserResponse `json:"members,omitempty"`
}

// BoardResponse is used for both administrative and participant views.
// Participant views never load the member list, so it is omitted there.
type BoardResponse struct {
	BoardUUID     uuid.UUID          `json:"board_uuid"`
	BoardID       string             `json:"board_id"`
	BoardName     string             `json:"board_name"`
	Administrator *UserResponse      `json:"administrator,omitempty"`
	Members       []UserResponse     `json:"members,omitempty"`
	Subboards     []SubboardResponse `json:"subboards,omitempty"`
}

func NewSubboardResponse(s domain.Subboard) SubboardResponse {
	resp := SubboardResponse{SubboardUUID: s.SubboardUUID, SubboardName: s.SubboardName}
	if len(s.Members) > 0 {
		resp.Members = NewUserResponses(s.Members)
	}
	return resp
}

func NewBoardResponse(b domain.Board) BoardResponse {
	resp := BoardResponse{
		BoardUUID: b.BoardUUID,
		BoardID:   b.BoardID,
		BoardName: b.BoardName,
	}
	// board summaries embedded in messages and forms carry no administrator
	if b.Administrator.UserUUID != uuid.Nil {
		admin := NewUserResponse(b.Administrator)
		resp.Administrator = &admin
	}
	if len(b.Members) > 0 {
		resp.Members = NewUserResponses(b.Members)
	}
	if len(b.Subboards) > 0 {
		resp.Subboards = mapSlice(b.Subboards, NewSubboardResponse)
	}
	return resp
}

func NewBoardResponses(boards []domain.Board) []BoardResponse {
	return mapSlice(boards, NewBoardResponse)
}

func NewSubboardResponses(subboards []domain.Subboard) []SubboardResponse {
	return mapSlice(subboards, NewSubboardResponse)
}
