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

type FormService interface {
	List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error)
	Create(ctx context.Context, user domain.User, data domain.FormCreationData) (domain.Form, error)
	Delete(ctx context.Context, user domain.User, board, form uuid.UUID) error
	Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error)
	MyResponses(ctx context.Context, user domain.User, board, form uuid.UUID) ([]domain.FormResponse, error)
	Respond(ctx context.Context, user domain.User, board uuid.UUID, data domain.FormResponseCreationData) (domain.FormResponse, error)
}

type Form struct {
	storage  FormStorage
	notifier Notifier
}

type FormStorage interface {
	BoardGetter
	SubboardChecker
	RecipientLineIDs(ctx context.Context, subboards []uuid.UUID) ([]domain.LineID, error)
	CreateForm(ctx context.Context, data domain.FormCreationData) (domain.Form, error)
	GetForms(ctx context.Context, board uuid.UUID) ([]domain.Form, error)
	GetForm(ctx context.Context, board, form uuid.UUID) (domain.Form, error)
	GetMyForms(ctx context.Context, user, board uuid.UUID) ([]domain.Form, error)
	GetMyFormResponses(ctx context.Context, user, form uuid.UUID) ([]domain.FormResponse, error)
	CreateFormResponse(ctx context.Context, data domain.FormResponseCreationData) (domain.FormResponse, error)
	DeleteForm(ctx context.Context, board, form uuid.UUID) error
	MarkFormSent(ctx context.Context, form uuid.UUID, at time.Time) error
}

func NewForm(storage FormStorage, notifier Notifier) *Form {
	return &Form{storage: storage, notifier: notifier}
}

// List returns the board's forms with questions and every response.
func (f *Form) List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error) {
	if _, err := administeredBoard(ctx, f.storage, user, board); err != nil {
		return nil, err
	}
	return nonEmpty(f.storage.GetForms(ctx, board))
}

// Create stores the form and fans it out like a message.
func (f *Form) Create(ctx context.Context, user domain.User, data domain.FormCreationData) (domain.Form, error) {
	if _, err := administeredBoard(ctx, f.storage, user, data.BoardUUID); err != nil {
		return domain.Form{}, err
	}
	data.Title = utils.SanitizeText(data.Title)
	if data.Title == "" {
		return domain.Form{}, errors.BadRequest("Form title is empty")
	}
	if len(data.Questions) == 0 {
		return domain.Form{}, errors.BadRequest("Form has no questions")
	}
	for i, q := range data.Questions {
		q.Title, q.Yes, q.No = utils.SanitizeText(q.Title), utils.SanitizeText(q.Yes), utils.SanitizeText(q.No)
		if q.Title == "" || q.Yes == "" || q.No == "" {
			return domain.Form{}, errors.BadRequest("Form question is incomplete")
		}
		data.Questions[i] = q
	}
	subboards, err := checkSubboards(ctx, f.storage, data.BoardUUID, data.SubboardUUIDs)
	if err != nil {
		return domain.Form{}, err
	}
	data.SubboardUUIDs = subboards

	form, err := f.storage.CreateForm(ctx, data)
	if err != nil {
		return domain.Form{}, err
	}
	if form.ScheduledSendTime != nil {
		return form, nil
	}

	recipients, err := f.storage.RecipientLineIDs(ctx, subboards)
	if err != nil {
		logger.Log.Error("failed to resolve form recipients", "form_uuid", form.FormUUID, "error", err)
	} else if err := f.notifier.NotifyForm(ctx, form, recipients); err != nil {
		logger.Log.Error("failed to deliver form", "form_uuid", form.FormUUID, "recipients", len(recipients), "error", err)
	}

	sentAt := nowFunc()
	if err := f.storage.MarkFormSent(ctx, form.FormUUID, sentAt); err != nil {
		logger.Log.Error("failed to stamp form send time", "form_uuid", form.FormUUID, "error", err)
		return form, nil
	}
	form.SendTime = &sentAt
	return form, nil
}

func (f *Form) Delete(ctx context.Context, user domain.User, board, form uuid.UUID) error {
	if _, err := administeredBoard(ctx, f.storage, user, board); err != nil {
		return err
	}
	return f.storage.DeleteForm(ctx, board, form)
}

// Mine lists forms addressed to the caller's subboards with the caller's own answers.
func (f *Form) Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error) {
	if _, err := memberBoard(ctx, f.storage, user, board); err != nil {
		return nil, err
	}
	return nonEmpty(f.storage.GetMyForms(ctx, user.UserUUID, board))
}

func (f *Form) MyResponses(ctx context.Context, user domain.User, board, form uuid.UUID) ([]domain.FormResponse, error) {
	if _, err := memberBoard(ctx, f.storage, user, board); err != nil {
		return nil, err
	}
	if _, err := f.storage.GetForm(ctx, board, form); err != nil {
		return nil, err
	}
	return nonEmpty(f.storage.GetMyFormResponses(ctx, user.UserUUID, form))
}

// Respond stores one answer set. It must answer every question of the form
// exactly once, each answer picking exactly one of yes/no.
func (f *Form) Respond(ctx context.Context, user domain.User, board uuid.UUID, data domain.FormResponseCreationData) (domain.FormResponse, error) {
	if _, err := memberBoard(ctx, f.storage, user, board); err != nil {
		return domain.FormResponse{}, err
	}
	form, err := f.storage.GetForm(ctx, board, data.FormUUID)
	if err != nil {
		return domain.FormResponse{}, err
	}
	if len(data.Answers) == 0 {
		return domain.FormResponse{}, errors.BadRequest("No answers")
	}
	seen := make(map[uuid.UUID]struct{}, len(data.Answers))
	for _, a := range data.Answers {
		if a.Yes == a.No {
			return domain.FormResponse{}, errors.BadRequest("Answer must be exactly one of yes or no")
		}
		if !form.HasQuestion(a.FormQuestionUUID) {
			return domain.FormResponse{}, errors.BadRequest("Unknown form question")
		}
		if _, dup := seen[a.FormQuestionUUID]; dup {
			return domain.FormResponse{}, errors.BadRequest("Question answered twice")
		}
		seen[a.FormQuestionUUID] = struct{}{}
	}
	if len(seen) != len(form.FormQuestions) {
		return domain.FormResponse{}, errors.BadRequest("Every question must be answered")
	}
	data.Respondent = user.UserUUID
	return f.storage.CreateFormResponse(ctx, data)
}
