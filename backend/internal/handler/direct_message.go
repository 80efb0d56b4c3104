package handler

import (
	"fmt"
	"net/http"

	"github.com/mosacup/webboard/shared/api"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/utils"
)

// GetDirectMessages lists what the caller has sent.
func (h *Handler) GetDirectMessages(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	dms, err := h.directMessage.Sent(r.Context(), user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewDirectMessageResponses(dms))
}

// GetMyDirectMessages lists what the caller has received.
func (h *Handler) GetMyDirectMessages(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	dms, err := h.directMessage.Received(r.Context(), user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.NewDirectMessageResponses(dms))
}

// CreateDirectMessage stores one copy per recipient. Location points at the first.
func (h *Handler) CreateDirectMessage(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateDirectMessageRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	dms, err := h.directMessage.Create(r.Context(), user, domain.DirectMessageCreationData{
		SendTo:            body.SendToUUIDs,
		Body:              body.Body,
		ScheduledSendTime: body.ScheduledSendTime,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteCreated(w, r, fmt.Sprintf("./direct_message/%s", dms[0].DirectMessageUUID))
}

func (h *Handler) DeleteDirectMessage(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := uuidParam(r, "direct_message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.directMessage.Delete(r.Context(), user, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
