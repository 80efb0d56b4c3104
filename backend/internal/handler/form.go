package handler

import (
	"fmt"
	"net/http"

	"github.com/mosacup/webboard/shared/api"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/utils"
)

func (h *Handler) GetForms(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardUUID, err := uuidParam(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	forms, err := h.form.List(r.Context(), user, boardUUID)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewFormResponses(forms))
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardUUID, err := uuidParam(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateFormRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	questions := make([]domain.FormQuestionData, 0, len(body.FormQuestions))
	for _, q := range body.FormQuestions {
		questions = append(questions, domain.FormQuestionData{Title: q.Title, Yes: q.Yes, No: q.No})
	}
	form, err := h.form.Create(r.Context(), user, domain.FormCreationData{
		BoardUUID:         boardUUID,
		SubboardUUIDs:     body.SubboardUUIDs,
		Title:             body.Title,
		ScheduledSendTime: body.ScheduledSendTime,
		Questions:         questions,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteCreated(w, r, fmt.Sprintf("./form/%s", form.FormUUID))
}

func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardUUID, err := uuidParam(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	formUUID, err := uuidParam(r, "form")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.form.Delete(r.Context(), user, boardUUID, formUUID); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetMyForms(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardUUID, err := uuidParam(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	forms, err := h.form.Mine(r.Context(), user, boardUUID)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewFormResponses(forms))
}

func (h *Handler) GetMyFormResponses(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardUUID, err := uuidParam(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	formUUID, err := uuidParam(r, "form")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	responses, err := h.form.MyResponses(r.Context(), user, boardUUID, formUUID)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewFormAnswerSetResponses(responses))
}

func (h *Handler) CreateMyFormResponse(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	boardUUID, err := uuidParam(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	formUUID, err := uuidParam(r, "form")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateFormResponseRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	answers := make([]domain.QuestionAnswer, 0, len(body.FormQuestionResponses))
	for _, a := range body.FormQuestionResponses {
		answers = append(answers, domain.QuestionAnswer{FormQuestionUUID: a.FormQuestionUUID, Yes: a.Yes, No: a.No})
	}
	response, err := h.form.Respond(r.Context(), user, boardUUID, domain.FormResponseCreationData{
		FormUUID: formUUID,
		Answers:  answers,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, api.NewFormAnswerSetResponse(response))
}
