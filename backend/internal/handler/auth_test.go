package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/api"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Run("created with location", func(t *testing.T) {
		// Arrange
		th := newTestHandler()
		lineUser := uuid.New()
		th.auth.SignupFunc = func(_ context.Context, data domain.SignupData) (domain.User, error) {
			assert.Equal(t, "alice", data.Username)
			assert.Equal(t, "pw", data.Password)
			require.NotNil(t, data.LineUserUUID)
			assert.Equal(t, lineUser, *data.LineUserUUID)
			return domain.User{UserUUID: uuid.New()}, nil
		}
		body := `{"username":"alice","password":"pw","line_user_uuid":"` + lineUser.String() + `"}`
		req := newRequest(http.MethodPost, "/api/v1/signup", body, nil)
		rr := httptest.NewRecorder()

		// Act
		th.Signup(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "/api/v1/signin", rr.Header().Get("Location"))
		var created api.CreatedResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
		assert.Equal(t, "/api/v1/signin", created.Location)
	})

	t.Run("missing fields", func(t *testing.T) {
		th := newTestHandler()
		rr := httptest.NewRecorder()

		th.Signup(rr, newRequest(http.MethodPost, "/api/v1/signup", `{"username":"alice"}`, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		th := newTestHandler()
		th.auth.SignupFunc = func(context.Context, domain.SignupData) (domain.User, error) {
			return domain.User{}, internal_errors.BadRequest("Username already taken")
		}
		rr := httptest.NewRecorder()

		th.Signup(rr, newRequest(http.MethodPost, "/api/v1/signup", `{"username":"alice","password":"pw"}`, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Username already taken")
	})
}

func TestSignin(t *testing.T) {
	newService := func(t *testing.T) *testHandler {
		th := newTestHandler()
		th.auth.SigninFunc = func(_ context.Context, creds domain.Credentials) (string, error) {
			if creds.Username != "alice" || creds.Password != "pw" {
				return "", internal_errors.Unauthenticated("Incorrect username or password")
			}
			return "jwt-token", nil
		}
		return th
	}

	t.Run("json body", func(t *testing.T) {
		th := newService(t)
		rr := httptest.NewRecorder()

		th.Signin(rr, newRequest(http.MethodPost, "/api/v1/signin", `{"username":"alice","password":"pw"}`, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var token api.TokenResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&token))
		assert.Equal(t, "jwt-token", token.AccessToken)
		assert.Equal(t, "bearer", token.TokenType)
	})

	t.Run("form body", func(t *testing.T) {
		th := newService(t)
		form := url.Values{"username": {"alice"}, "password": {"pw"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/signin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		th.Signin(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "jwt-token")
	})

	t.Run("multipart body", func(t *testing.T) {
		th := newService(t)
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("username", "alice"))
		require.NoError(t, writer.WriteField("password", "pw"))
		require.NoError(t, writer.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/signin", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()

		th.Signin(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "jwt-token")
	})

	t.Run("form body missing password", func(t *testing.T) {
		th := newService(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/signin", strings.NewReader("username=alice"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		th.Signin(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		th := newService(t)
		rr := httptest.NewRecorder()

		th.Signin(rr, newRequest(http.MethodPost, "/api/v1/signin", `{"username":"alice","password":"nope"}`, nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		th := newService(t)
		rr := httptest.NewRecorder()

		th.Signin(rr, newRequest(http.MethodPost, "/api/v1/signin", `{`, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
