package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
)

// Notifier delivers board items to the chat platform.
type Notifier interface {
	NotifyMessage(ctx context.Context, msg domain.Message, to []domain.LineID) error
	NotifyForm(ctx context.Context, form domain.Form, to []domain.LineID) error
	NotifyDirectMessage(ctx context.Context, dm domain.DirectMessage) error
}

// NoopNotifier is used when no chat channel is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyMessage(context.Context, domain.Message, []domain.LineID) error { return nil }
func (NoopNotifier) NotifyForm(context.Context, domain.Form, []domain.LineID) error       { return nil }
func (NoopNotifier) NotifyDirectMessage(context.Context, domain.DirectMessage) error      { return nil }

type BoardGetter interface {
	GetBoard(ctx context.Context, id uuid.UUID) (domain.Board, error)
}

// administeredBoard loads the board and checks that user administers it.
func administeredBoard(ctx context.Context, boards BoardGetter, user domain.User, id uuid.UUID) (domain.Board, error) {
	board, err := boards.GetBoard(ctx, id)
	if err != nil {
		return domain.Board{}, err
	}
	if !board.IsAdministrator(user.UserUUID) {
		return domain.Board{}, errors.Forbidden("Not the board administrator")
	}
	return board, nil
}

// memberBoard loads the board and checks that user is one of its members.
func memberBoard(ctx context.Context, boards BoardGetter, user domain.User, id uuid.UUID) (domain.Board, error) {
	board, err := boards.GetBoard(ctx, id)
	if err != nil {
		return domain.Board{}, err
	}
	if !board.IsMember(user.UserUUID) {
		return domain.Board{}, errors.Forbidden("Not a board member")
	}
	return board, nil
}

// nonEmpty turns an empty list into NoContent.
func nonEmpty[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NoContent()
	}
	return items, nil
}

// SubboardChecker resolves which of the requested subboards are live in a board.
type SubboardChecker interface {
	LiveSubboardIDs(ctx context.Context, board uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

// checkSubboards requires every requested id to be a live subboard of board.
func checkSubboards(ctx context.Context, s SubboardChecker, board uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	ids = domain.UniqueUUIDs(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	live, err := s.LiveSubboardIDs(ctx, board, ids)
	if err != nil {
		return nil, err
	}
	if len(live) != len(ids) {
		return nil, errors.BadRequest("Unknown subboard")
	}
	return ids, nil
}

var nowFunc = func() time.Time { return time.Now().UTC() }
