package handler

import (
	"net/http"

	"github.com/mosacup/webboard/shared/logger"
	"github.com/mosacup/webboard/shared/utils"
)

// Callback receives chat platform webhooks. Once the signature checks out the
// platform always gets 200, failures of single events are only logged.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	events, err := h.webhook.ParseRequest(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	for _, ev := range events {
		if err := h.chat.HandleEvent(r.Context(), ev); err != nil {
			logger.Log.Error("failed to handle chat event", "event_id", ev.EventID, "line_id", ev.LineID, "error", err)
		}
	}

	w.WriteHeader(http.StatusOK)
}
