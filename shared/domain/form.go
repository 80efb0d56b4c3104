package domain

import (
	"time"

	"github.com/google/uuid"
)

type FormQuestionData struct {
	Title string
	Yes   string
	No    string
}

type FormCreationData struct {
	BoardUUID         BoardUUID
	SubboardUUIDs     []SubboardUUID
	Title             string
	ScheduledSendTime *time.Time
	Questions         []FormQuestionData
}

type FormYesNoQuestion struct {
	FormQuestionUUID uuid.UUID
	Title            string
	Yes              string
	No               string
	Position         int
}

type FormYesNoQuestionResponse struct {
	FormQuestionResponseUUID uuid.UUID
	FormQuestionUUID         uuid.UUID
	Yes                      bool
	No                       bool
}

type FormResponse struct {
	FormResponseUUID      uuid.UUID
	FormUUID              FormUUID
	Respondent            User
	FormQuestionResponses []FormYesNoQuestionResponse
	CreatedAt             time.Time
}

type Form struct {
	FormUUID          FormUUID
	Board             Board // summary: uuid, id, name
	Subboards         []Subboard
	Title             string
	SendTime          *time.Time
	ScheduledSendTime *time.Time
	FormQuestions     []FormYesNoQuestion
	FormResponses     []FormResponse
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// HasQuestion reports whether the question belongs to this form.
func (f *Form) HasQuestion(question uuid.UUID) bool {
	for _, q := range f.FormQuestions {
		if q.FormQuestionUUID == question {
			return true
		}
	}
	return false
}

type QuestionAnswer struct {
	FormQuestionUUID uuid.UUID
	Yes              bool
	No               bool
}

type FormResponseCreationData struct {
	FormUUID   FormUUID
	Respondent UserUUID
	Answers    []QuestionAnswer
}
