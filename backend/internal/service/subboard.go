package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/backend/internal/utils"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
)

type SubboardService interface {
	List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error)
	Get(ctx context.Context, user domain.User, board, subboard uuid.UUID) (domain.Subboard, error)
	Create(ctx context.Context, user domain.User, board uuid.UUID, name string) (domain.Subboard, error)
	Delete(ctx context.Context, user domain.User, board, subboard uuid.UUID) error
	Available(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error)
	Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error)
	UpdateMine(ctx context.Context, user domain.User, board uuid.UUID, subboards []uuid.UUID) error
}

type Subboard struct {
	storage SubboardStorage
}

type SubboardStorage interface {
	BoardGetter
	CreateSubboard(ctx context.Context, data domain.SubboardCreationData) (domain.Subboard, error)
	GetSubboards(ctx context.Context, board uuid.UUID) ([]domain.Subboard, error)
	GetSubboard(ctx context.Context, board, subboard uuid.UUID) (domain.Subboard, error)
	DeleteSubboard(ctx context.Context, board, subboard uuid.UUID) error
	GetMySubboards(ctx context.Context, user, board uuid.UUID) ([]domain.Subboard, error)
	ReplaceSubboardMemberships(ctx context.Context, user, board uuid.UUID, ids []uuid.UUID) error
}

func NewSubboard(storage SubboardStorage) *Subboard {
	return &Subboard{storage: storage}
}

func (s *Subboard) List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error) {
	if _, err := administeredBoard(ctx, s.storage, user, board); err != nil {
		return nil, err
	}
	return nonEmpty(s.storage.GetSubboards(ctx, board))
}

func (s *Subboard) Get(ctx context.Context, user domain.User, board, subboard uuid.UUID) (domain.Subboard, error) {
	if _, err := administeredBoard(ctx, s.storage, user, board); err != nil {
		return domain.Subboard{}, err
	}
	return s.storage.GetSubboard(ctx, board, subboard)
}

func (s *Subboard) Create(ctx context.Context, user domain.User, board uuid.UUID, name string) (domain.Subboard, error) {
	if _, err := administeredBoard(ctx, s.storage, user, board); err != nil {
		return domain.Subboard{}, err
	}
	name = utils.SanitizeText(name)
	if name == "" {
		return domain.Subboard{}, errors.BadRequest("Subboard name is empty")
	}
	return s.storage.CreateSubboard(ctx, domain.SubboardCreationData{BoardUUID: board, SubboardName: name})
}

func (s *Subboard) Delete(ctx context.Context, user domain.User, board, subboard uuid.UUID) error {
	if _, err := administeredBoard(ctx, s.storage, user, board); err != nil {
		return err
	}
	return s.storage.DeleteSubboard(ctx, board, subboard)
}

// Available lists the subboards a member may join. Other members are not exposed.
func (s *Subboard) Available(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error) {
	if _, err := memberBoard(ctx, s.storage, user, board); err != nil {
		return nil, err
	}
	subboards, err := nonEmpty(s.storage.GetSubboards(ctx, board))
	if err != nil {
		return nil, err
	}
	for i := range subboards {
		subboards[i].Members = nil
	}
	return subboards, nil
}

func (s *Subboard) Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error) {
	if _, err := memberBoard(ctx, s.storage, user, board); err != nil {
		return nil, err
	}
	return nonEmpty(s.storage.GetMySubboards(ctx, user.UserUUID, board))
}

// UpdateMine replaces the caller's subboard memberships inside board.
func (s *Subboard) UpdateMine(ctx context.Context, user domain.User, board uuid.UUID, subboards []uuid.UUID) error {
	if _, err := memberBoard(ctx, s.storage, user, board); err != nil {
		return err
	}
	return s.storage.ReplaceSubboardMemberships(ctx, user.UserUUID, board, domain.UniqueUUIDs(subboards))
}
