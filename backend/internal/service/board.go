package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/backend/internal/utils"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/logger"
)

// to mock service in tests
type BoardService interface {
	Create(ctx context.Context, admin domain.User, data domain.BoardCreationData) (domain.Board, error)
	Get(ctx context.Context, user domain.User, board uuid.UUID) (domain.Board, error)
	Delete(ctx context.Context, user domain.User, board uuid.UUID) error
	Administered(ctx context.Context, user domain.User) ([]domain.Board, error)
	MyBoards(ctx context.Context, user domain.User) ([]domain.Board, error)
	UpdateMyBoards(ctx context.Context, user domain.User, boards []uuid.UUID) error
}

type Board struct {
	storage BoardStorage
}

type BoardStorage interface {
	BoardGetter
	CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	DeleteBoard(ctx context.Context, id uuid.UUID) error
	GetAdministeredBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error)
	GetMyBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error)
	ReplaceBoardMemberships(ctx context.Context, user uuid.UUID, ids []uuid.UUID) error
}

func NewBoard(storage BoardStorage) *Board {
	return &Board{storage: storage}
}

func (b *Board) Create(ctx context.Context, admin domain.User, data domain.BoardCreationData) (domain.Board, error) {
	data.BoardID = utils.SanitizeText(data.BoardID)
	data.BoardName = utils.SanitizeText(data.BoardName)
	if data.BoardID == "" || data.BoardName == "" {
		return domain.Board{}, errors.BadRequest("Board id and name must not be empty")
	}
	data.Administrator = admin.UserUUID
	board, err := b.storage.CreateBoard(ctx, data)
	if err != nil {
		return domain.Board{}, err
	}
	logger.Log.Info("board created", "board_uuid", board.BoardUUID, "board_id", board.BoardID)
	return board, nil
}

func (b *Board) Get(ctx context.Context, user domain.User, board uuid.UUID) (domain.Board, error) {
	return administeredBoard(ctx, b.storage, user, board)
}

// Delete soft deletes the board together with its subboards.
func (b *Board) Delete(ctx context.Context, user domain.User, board uuid.UUID) error {
	if _, err := administeredBoard(ctx, b.storage, user, board); err != nil {
		return err
	}
	return b.storage.DeleteBoard(ctx, board)
}

func (b *Board) Administered(ctx context.Context, user domain.User) ([]domain.Board, error) {
	return nonEmpty(b.storage.GetAdministeredBoards(ctx, user.UserUUID))
}

func (b *Board) MyBoards(ctx context.Context, user domain.User) ([]domain.Board, error) {
	return nonEmpty(b.storage.GetMyBoards(ctx, user.UserUUID))
}

// UpdateMyBoards replaces the caller's board memberships. Ids that do not name a
// live board are dropped.
func (b *Board) UpdateMyBoards(ctx context.Context, user domain.User, boards []uuid.UUID) error {
	return b.storage.ReplaceBoardMemberships(ctx, user.UserUUID, domain.UniqueUUIDs(boards))
}
