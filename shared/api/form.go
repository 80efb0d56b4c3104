package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
)

// Request DTOs

type CreateFormQuestionRequest struct {
	Title string `json:"title" validate:"required,max=256"`
	Yes   string `json:"yes" validate:"required,max=64"`
	No    string `json:"no" validate:"required,max=64"`
}

type CreateFormRequest struct {
	SubboardUUIDs     []uuid.UUID                 `json:"subboard_uuids" validate:"required"`
	Title             string                      `json:"title" validate:"required,max=256"`
	ScheduledSendTime *time.Time                  `json:"scheduled_send_time,omitempty"`
	FormQuestions     []CreateFormQuestionRequest `json:"form_questions" validate:"required,min=1,dive"`
}

type QuestionAnswerRequest struct {
	FormQuestionUUID uuid.UUID `json:"form_question_uuid" validate:"required"`
	Yes              bool      `json:"yes"`
	No               bool      `json:"no"`
}

type CreateFormResponseRequest struct {
	FormQuestionResponses []QuestionAnswerRequest `json:"form_question_responses" validate:"required,min=1,dive"`
}

// Response DTOs

type FormQuestionResponse struct {
	FormQuestionUUID uuid.UUID `json:"form_question_uuid"`
	Title            string    `json:"title"`
	Yes              string    `json:"yes"`
	No               string    `json:"no"`
}

type QuestionAnswerResponse struct {
	FormQuestionResponseUUID uuid.UUID `json:"form_question_response_uuid"`
	FormQuestionUUID         uuid.UUID `json:"form_question_uuid"`
	Yes                      bool      `json:"yes"`
	No                       bool      `json:"no"`
}

type FormAnswerSetResponse struct {
	FormResponseUUID      uuid.UUID                `json:"form_response_uuid"`
	FormUUID              uuid.UUID                `json:"form_uuid"`
	Respondent            UserResponse             `json:"respondent"`
	FormQuestionResponses []QuestionAnswerResponse `json:"form_question_responses"`
	CreatedAt             time.Time                `json:"created_at"`
}

type FormResponse struct {
	FormUUID          uuid.UUID               `json:"form_uuid"`
	Board             BoardResponse           `json:"board"`
	Subboards         []SubboardResponse      `json:"subboards"`
	Title             string                  `json:"title"`
	SendTime          *time.Time              `json:"send_time"`
	ScheduledSendTime *time.Time              `json:"scheduled_send_time"`
	FormQuestions     []FormQuestionResponse  `json:"form_questions"`
	FormResponses     []FormAnswerSetResponse `json:"form_responses,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
}

func newFormQuestionResponse(q domain.FormYesNoQuestion) FormQuestionResponse {
	return FormQuestionResponse{FormQuestionUUID: q.FormQuestionUUID, Title: q.Title, Yes: q.Yes, No: q.No}
}

func newQuestionAnswerResponse(a domain.FormYesNoQuestionResponse) QuestionAnswerResponse {
	return QuestionAnswerResponse{
		FormQuestionResponseUUID: a.FormQuestionResponseUUID,
		FormQuestionUUID:         a.FormQuestionUUID,
		Yes:                      a.Yes,
		No:                       a.No,
	}
}

func NewFormAnswerSetResponse(r domain.FormResponse) FormAnswerSetResponse {
	return FormAnswerSetResponse{
		FormResponseUUID:      r.FormResponseUUID,
		FormUUID:              r.FormUUID,
		Respondent:            NewUserResponse(r.Respondent),
		FormQuestionResponses: mapSlice(r.FormQuestionResponses, newQuestionAnswerResponse),
		CreatedAt:             r.CreatedAt,
	}
}

func NewFormAnswerSetResponses(responses []domain.FormResponse) []FormAnswerSetResponse {
	return mapSlice(responses, NewFormAnswerSetResponse)
}

func NewFormResponse(f domain.Form) FormResponse {
	resp := FormResponse{
		FormUUID:          f.FormUUID,
		Board:             NewBoardResponse(f.Board),
		Subboards:         mapSlice(f.Subboards, NewSubboardResponse),
		Title:             f.Title,
		SendTime:          f.SendTime,
		ScheduledSendTime: f.ScheduledSendTime,
		FormQuestions:     mapSlice(f.FormQuestions, newFormQuestionResponse),
		CreatedAt:         f.CreatedAt,
	}
	if len(f.FormResponses) > 0 {
		resp.FormResponses = NewFormAnswerSetResponses(f.FormResponses)
	}
	return resp
}

func NewFormResponses(forms []domain.Form) []FormResponse {
	return mapSlice(forms, NewFormResponse)
}
