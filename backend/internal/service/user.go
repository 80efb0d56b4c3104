package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/backend/internal/utils"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/logger"
)

type UserService interface {
	UpdatePassword(ctx context.Context, user domain.User, newPassword string) error
	UpdateDisplayName(ctx context.Context, user domain.User, newDisplayName string) error
	Delete(ctx context.Context, user domain.User) error
}

type User struct {
	storage UserStorage
}

type UserStorage interface {
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

func NewUser(storage UserStorage) *User {
	return &User{storage: storage}
}

func (u *User) UpdatePassword(ctx context.Context, user domain.User, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return u.storage.UpdatePassword(ctx, user.UserUUID, hash)
}

func (u *User) UpdateDisplayName(ctx context.Context, user domain.User, newDisplayName string) error {
	name := utils.SanitizeText(newDisplayName)
	if name == "" {
		return errors.BadRequest("Display name is empty")
	}
	return u.storage.UpdateDisplayName(ctx, user.UserUUID, name)
}

// Delete soft deletes the account. Existing tokens stop working because the
// auth middleware no longer finds the user.
func (u *User) Delete(ctx context.Context, user domain.User) error {
	if err := u.storage.DeleteUser(ctx, user.UserUUID); err != nil {
		return err
	}
	logger.Log.Info("user deleted", "user_uuid", user.UserUUID)
	return nil
}
