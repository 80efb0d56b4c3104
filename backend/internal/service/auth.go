package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, data domain.SignupData) (domain.User, error)
	Signin(ctx context.Context, creds domain.Credentials) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	CreateUser(ctx context.Context, username, hashedPassword string, lineUserUUID *uuid.UUID) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

// Signup stores a new account, optionally linked to a chat platform user.
func (a *Auth) Signup(ctx context.Context, data domain.SignupData) (domain.User, error) {
	hash, err := hashPassword(data.Password)
	if err != nil {
		return domain.User{}, err
	}
	user, err := a.storage.CreateUser(ctx, data.Username, hash, data.LineUserUUID)
	if err != nil {
		return domain.User{}, err
	}
	logger.Log.Info("user signed up", "user_uuid", user.UserUUID, "linked", user.LineUser != nil)
	return user, nil
}

// Signin checks the credentials and returns a bearer token.
func (a *Auth) Signin(ctx context.Context, creds domain.Credentials) (string, error) {
	user, err := a.storage.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return "", internal_errors.Unauthenticated("Incorrect username or password")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", internal_errors.Unauthenticated("Incorrect username or password")
		}
		return "", err
	}
	return a.jwt.NewToken(user)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", internal_errors.BadRequest("Password is too long")
		}
		return "", err
	}
	return string(hash), nil
}
