package handler

import (
	"mime"
	"net/http"

	"github.com/mosacup/webboard/shared/api"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/utils"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body api.SignupRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	_, err := h.auth.Signup(r.Context(), domain.SignupData{
		Username:     body.Username,
		Password:     body.Password,
		LineUserUUID: body.LineUserUUID,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteCreated(w, r, "./signin")
}

// Signin accepts either a JSON body or an OAuth2-style form post.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	body, err := decodeSignin(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Signin(r.Context(), domain.Credentials{Username: body.Username, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

const maxSigninFormMemory = 1 << 20

func decodeSignin(r *http.Request) (api.SigninRequest, error) {
	var body api.SigninRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxSigninFormMemory)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return body, internal_errors.BadRequest("Body is invalid form")
		}
		body.Username = r.PostFormValue("username")
		body.Password = r.PostFormValue("password")
		return body, utils.Validate(&body)
	default:
		return body, utils.DecodeValidate(r.Body, &body)
	}
}
