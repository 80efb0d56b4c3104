package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardCreate(t *testing.T) {
	admin := domain.User{UserUUID: uuid.New()}

	testCases := []struct {
		name       string
		data       domain.BoardCreationData
		wantStatus int
	}{
		{name: "Successful Creation", data: domain.BoardCreationData{BoardID: "class-1", BoardName: "Class 1"}},
		{name: "Markup is stripped", data: domain.BoardCreationData{BoardID: "<i>c2</i>", BoardName: "<b>Class 2</b>"}},
		{name: "Empty id", data: domain.BoardCreationData{BoardID: " ", BoardName: "Class"}, wantStatus: http.StatusBadRequest},
		{name: "Empty name", data: domain.BoardCreationData{BoardID: "c", BoardName: ""}, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stored *domain.BoardCreationData
			storage := &MockStorage{
				CreateBoardFunc: func(_ context.Context, data domain.BoardCreationData) (domain.Board, error) {
					stored = &data
					return domain.Board{BoardUUID: uuid.New(), BoardID: data.BoardID, BoardName: data.BoardName}, nil
				},
			}

			board, err := NewBoard(storage).Create(context.Background(), admin, tc.data)

			if tc.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tc.wantStatus, statusOf(t, err))
				assert.Nil(t, stored)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, admin.UserUUID, stored.Administrator, "caller becomes the administrator")
			assert.NotContains(t, board.BoardID, "<")
			assert.NotContains(t, board.BoardName, "<")
		})
	}

	t.Run("Duplicate board id", func(t *testing.T) {
		storage := &MockStorage{
			CreateBoardFunc: func(context.Context, domain.BoardCreationData) (domain.Board, error) {
				return domain.Board{}, errors.BadRequest("Board id already taken")
			},
		}

		_, err := NewBoard(storage).Create(context.Background(), admin, domain.BoardCreationData{BoardID: "a", BoardName: "b"})

		assert.ErrorIs(t, err, errors.ErrBadRequest)
	})
}

func TestBoardGet(t *testing.T) {
	f := newFixture()
	service := NewBoard(f.storage())
	ctx := context.Background()

	t.Run("administrator", func(t *testing.T) {
		board, err := service.Get(ctx, f.admin, f.board.BoardUUID)

		require.NoError(t, err)
		assert.Equal(t, f.board.BoardID, board.BoardID)
		assert.Len(t, board.Members, 1)
	})

	t.Run("member is not the administrator", func(t *testing.T) {
		_, err := service.Get(ctx, f.member, f.board.BoardUUID)

		assert.ErrorIs(t, err, errors.ErrForbidden)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("unknown board", func(t *testing.T) {
		_, err := service.Get(ctx, f.admin, uuid.New())

		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestBoardDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("administrator deletes", func(t *testing.T) {
		storage := f.storage()
		var deleted uuid.UUID
		storage.DeleteBoardFunc = func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		}

		require.NoError(t, NewBoard(storage).Delete(ctx, f.admin, f.board.BoardUUID))
		assert.Equal(t, f.board.BoardUUID, deleted)
	})

	t.Run("others may not", func(t *testing.T) {
		storage := f.storage()
		storage.DeleteBoardFunc = func(context.Context, uuid.UUID) error {
			t.Fatal("board must not be deleted")
			return nil
		}

		for _, u := range []domain.User{f.member, f.stranger} {
			err := NewBoard(storage).Delete(ctx, u, f.board.BoardUUID)
			assert.ErrorIs(t, err, errors.ErrForbidden)
		}
	})
}

func TestBoardLists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("administered", func(t *testing.T) {
		storage := &MockStorage{
			GetAdministeredBoardsFunc: func(_ context.Context, user uuid.UUID) ([]domain.Board, error) {
				assert.Equal(t, f.admin.UserUUID, user)
				return []domain.Board{f.board}, nil
			},
		}

		boards, err := NewBoard(storage).Administered(ctx, f.admin)

		require.NoError(t, err)
		assert.Len(t, boards, 1)
	})

	t.Run("empty lists are NoContent", func(t *testing.T) {
		service := NewBoard(&MockStorage{})

		_, err := service.Administered(ctx, f.stranger)
		assert.True(t, errors.IsNoContent(err))

		_, err = service.MyBoards(ctx, f.stranger)
		assert.True(t, errors.IsNoContent(err))
	})

	t.Run("my boards", func(t *testing.T) {
		storage := &MockStorage{
			GetMyBoardsFunc: func(_ context.Context, user uuid.UUID) ([]domain.Board, error) {
				assert.Equal(t, f.member.UserUUID, user)
				return []domain.Board{f.board}, nil
			},
		}

		boards, err := NewBoard(storage).MyBoards(ctx, f.member)

		require.NoError(t, err)
		assert.Equal(t, f.board.BoardUUID, boards[0].BoardUUID)
	})
}

func TestBoardUpdateMyBoards(t *testing.T) {
	me := domain.User{UserUUID: uuid.New()}
	a, b := uuid.New(), uuid.New()
	var got []uuid.UUID
	storage := &MockStorage{
		ReplaceBoardMembershipsFunc: func(_ context.Context, user uuid.UUID, ids []uuid.UUID) error {
			assert.Equal(t, me.UserUUID, user)
			got = ids
			return nil
		},
	}

	err := NewBoard(storage).UpdateMyBoards(context.Background(), me, []uuid.UUID{a, b, a})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, got)
}
