package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	jwt_internal "github.com/mosacup/webboard/shared/jwt"
	"github.com/mosacup/webboard/shared/utils"
)

// UserGetter loads the live user row a token was issued to.
type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// Key to store the current user in the request context
type key int

const UserClaimsKey key = 0

type Auth struct {
	jwtService jwt_internal.JwtService
	users      UserGetter
}

func NewAuth(jwtService jwt_internal.JwtService, users UserGetter) *Auth {
	return &Auth{jwtService: jwtService, users: users}
}

// NeedAuth rejects the request with 401 unless the bearer token resolves to a live user.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	tokenString, found := bearerToken(r.Header.Get("Authorization"))
	if !found {
		return nil, internal_errors.Unauthenticated("Please sign-in")
	}

	id, err := a.jwtService.UserUUID(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetUser(r.Context(), id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			// deleted accounts keep valid tokens until expiry
			return nil, internal_errors.Unauthenticated("Invalid access token")
		}
		return nil, err
	}
	return &user, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser is used by handler tests to skip token handling.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserClaimsKey, user)
}
