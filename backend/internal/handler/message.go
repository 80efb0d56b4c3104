package handler

import (
	"fmt"
	"net/http"

	"github.com/mosacup/webboard/shared/api"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/utils"
)

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.message.List(r.Context(), user, boardUUID)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewMessageResponses(messages))
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
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
	messageUUID, err := uuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	message, err := h.message.Get(r.Context(), user, boardUUID, messageUUID)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewMessageResponse(message))
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
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
	var body api.CreateMessageRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	message, err := h.message.Create(r.Context(), user, domain.MessageCreationData{
		BoardUUID:         boardUUID,
		SubboardUUIDs:     body.SubboardUUIDs,
		Body:              body.Body,
		ScheduledSendTime: body.ScheduledSendTime,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteCreated(w, r, fmt.Sprintf("./message/%s", message.MessageUUID))
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
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
	messageUUID, err := uuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.message.Delete(r.Context(), user, boardUUID, messageUUID); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetMyMessages(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.message.Mine(r.Context(), user, boardUUID)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewMessageResponses(messages))
}
