package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/mosacup/webboard/shared/api"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode answers with the status carried by err, 500 otherwise.
// NoContent results are written as a bare 204.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		if e.StatusCode == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	logger.Log.Error("internal error", "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return internal_errors.BadRequest("Body is invalid json")
	}
	return Validate(body)
}

func Validate(body any) error {
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("validation failed", "error", err)
		return internal_errors.BadRequest("Required fields missing")
	}
	return nil
}

// ResolveLocation resolves ref against the request path the way a browser would,
// so "./board/x" posted to /api/v1/board becomes /api/v1/board/x.
func ResolveLocation(r *http.Request, ref string) string {
	rel, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	base := &url.URL{Path: r.URL.Path}
	return base.ResolveReference(rel).String()
}

// WriteCreated sets Location and echoes it in the body.
func WriteCreated(w http.ResponseWriter, r *http.Request, ref string) {
	location := ResolveLocation(r, ref)
	w.Header().Set("Location", location)
	WriteJSON(w, http.StatusCreated, api.CreatedResponse{Location: location})
}
