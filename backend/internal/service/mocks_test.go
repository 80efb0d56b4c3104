package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
)

// MockStorage implements every storage interface of this package. Unset funcs
// return zero values.
type MockStorage struct {
	CreateUserFunc        func(ctx context.Context, username, hashedPassword string, lineUserUUID *uuid.UUID) (domain.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	GetUserByLineIDFunc   func(ctx context.Context, lineID domain.LineID) (domain.User, error)
	UpdatePasswordFunc    func(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateDisplayNameFunc func(ctx context.Context, id uuid.UUID, displayName string) error
	DeleteUserFunc        func(ctx context.Context, id uuid.UUID) error

	EnsureLineUserFunc       func(ctx context.Context, lineID domain.LineID) (domain.LineUser, error)
	SetConversationStateFunc func(ctx context.Context, lineUserUUID uuid.UUID, state domain.ConversationState) error

	GetBoardFunc                func(ctx context.Context, id uuid.UUID) (domain.Board, error)
	GetBoardByBoardIDFunc       func(ctx context.Context, boardID domain.BoardID) (domain.Board, error)
	CreateBoardFunc             func(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	DeleteBoardFunc             func(ctx context.Context, id uuid.UUID) error
	GetAdministeredBoardsFunc   func(ctx context.Context, user uuid.UUID) ([]domain.Board, error)
	GetMyBoardsFunc             func(ctx context.Context, user uuid.UUID) ([]domain.Board, error)
	ReplaceBoardMembershipsFunc func(ctx context.Context, user uuid.UUID, ids []uuid.UUID) error

	CreateSubboardFunc             func(ctx context.Context, data domain.SubboardCreationData) (domain.Subboard, error)
	GetSubboardsFunc               func(ctx context.Context, board uuid.UUID) ([]domain.Subboard, error)
	GetSubboardFunc                func(ctx context.Context, board, subboard uuid.UUID) (domain.Subboard, error)
	DeleteSubboardFunc             func(ctx context.Context, board, subboard uuid.UUID) error
	GetMySubboardsFunc             func(ctx context.Context, user, board uuid.UUID) ([]domain.Subboard, error)
	ReplaceSubboardMembershipsFunc func(ctx context.Context, user, board uuid.UUID, ids []uuid.UUID) error
	LiveSubboardIDsFunc            func(ctx context.Context, board uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	RecipientLineIDsFunc           func(ctx context.Context, subboards []uuid.UUID) ([]domain.LineID, error)

	CreateMessageFunc   func(ctx context.Context, data domain.MessageCreationData) (domain.Message, error)
	GetMessagesFunc     func(ctx context.Context, board uuid.UUID) ([]domain.Message, error)
	GetMessageFunc      func(ctx context.Context, board, message uuid.UUID) (domain.Message, error)
	GetMyMessagesFunc   func(ctx context.Context, user, board uuid.UUID) ([]domain.Message, error)
	DeleteMessageFunc   func(ctx context.Context, board, message uuid.UUID) error
	MarkMessageSentFunc func(ctx context.Context, message uuid.UUID, at time.Time) error

	CreateDirectMessagesFunc      func(ctx context.Context, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error)
	GetSentDirectMessagesFunc     func(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error)
	GetReceivedDirectMessagesFunc func(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error)
	GetDirectMessageFunc          func(ctx context.Context, id uuid.UUID) (domain.DirectMessage, error)
	DeleteDirectMessageFunc       func(ctx context.Context, id uuid.UUID) error
	MarkDirectMessageSentFunc     func(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateFormFunc         func(ctx context.Context, data domain.FormCreationData) (domain.Form, error)
	GetFormsFunc           func(ctx context.Context, board uuid.UUID) ([]domain.Form, error)
	GetFormFunc            func(ctx context.Context, board, form uuid.UUID) (domain.Form, error)
	GetMyFormsFunc         func(ctx context.Context, user, board uuid.UUID) ([]domain.Form, error)
	GetMyFormResponsesFunc func(ctx context.Context, user, form uuid.UUID) ([]domain.FormResponse, error)
	CreateFormResponseFunc func(ctx context.Context, data domain.FormResponseCreationData) (domain.FormResponse, error)
	DeleteFormFunc         func(ctx context.Context, board, form uuid.UUID) error
	MarkFormSentFunc       func(ctx context.Context, form uuid.UUID, at time.Time) error
}

func (m *MockStorage) CreateUser(ctx context.Context, username, hashedPassword string, lineUserUUID *uuid.UUID) (domain.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, username, hashedPassword, lineUserUUID)
	}
	return domain.User{}, nil
}

func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	return domain.User{}, nil
}

func (m *MockStorage) GetUserByLineID(ctx context.Context, lineID domain.LineID) (domain.User, error) {
	if m.GetUserByLineIDFunc != nil {
		return m.GetUserByLineIDFunc(ctx, lineID)
	}
	return domain.User{}, nil
}

func (m *MockStorage) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hashedPassword)
	}
	return nil
}

func (m *MockStorage) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	if m.UpdateDisplayNameFunc != nil {
		return m.UpdateDisplayNameFunc(ctx, id, displayName)
	}
	return nil
}

func (m *MockStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

func (m *MockStorage) EnsureLineUser(ctx context.Context, lineID domain.LineID) (domain.LineUser, error) {
	if m.EnsureLineUserFunc != nil {
		return m.EnsureLineUserFunc(ctx, lineID)
	}
	return domain.LineUser{UserID: lineID, ConversationState: domain.StateIdle}, nil
}

func (m *MockStorage) SetConversationState(ctx context.Context, lineUserUUID uuid.UUID, state domain.ConversationState) error {
	if m.SetConversationStateFunc != nil {
		return m.SetConversationStateFunc(ctx, lineUserUUID, state)
	}
	return nil
}

func (m *MockStorage) GetBoard(ctx context.Context, id uuid.UUID) (domain.Board, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, id)
	}
	return domain.Board{}, nil
}

func (m *MockStorage) GetBoardByBoardID(ctx context.Context, boardID domain.BoardID) (domain.Board, error) {
	if m.GetBoardByBoardIDFunc != nil {
		return m.GetBoardByBoardIDFunc(ctx, boardID)
	}
	return domain.Board{}, nil
}

func (m *MockStorage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, data)
	}
	return domain.Board{}, nil
}

func (m *MockStorage) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(ctx, id)
	}
	return nil
}

func (m *MockStorage) GetAdministeredBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error) {
	if m.GetAdministeredBoardsFunc != nil {
		return m.GetAdministeredBoardsFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockStorage) GetMyBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error) {
	if m.GetMyBoardsFunc != nil {
		return m.GetMyBoardsFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockStorage) ReplaceBoardMemberships(ctx context.Context, user uuid.UUID, ids []uuid.UUID) error {
	if m.ReplaceBoardMembershipsFunc != nil {
		return m.ReplaceBoardMembershipsFunc(ctx, user, ids)
	}
	return nil
}

func (m *MockStorage) CreateSubboard(ctx context.Context, data domain.SubboardCreationData) (domain.Subboard, error) {
	if m.CreateSubboardFunc != nil {
		return m.CreateSubboardFunc(ctx, data)
	}
	return domain.Subboard{}, nil
}

func (m *MockStorage) GetSubboards(ctx context.Context, board uuid.UUID) ([]domain.Subboard, error) {
	if m.GetSubboardsFunc != nil {
		return m.GetSubboardsFunc(ctx, board)
	}
	return nil, nil
}

func (m *MockStorage) GetSubboard(ctx context.Context, board, subboard uuid.UUID) (domain.Subboard, error) {
	if m.GetSubboardFunc != nil {
		return m.GetSubboardFunc(ctx, board, subboard)
	}
	return domain.Subboard{}, nil
}

func (m *MockStorage) DeleteSubboard(ctx context.Context, board, subboard uuid.UUID) error {
	if m.DeleteSubboardFunc != nil {
		return m.DeleteSubboardFunc(ctx, board, subboard)
	}
	return nil
}

func (m *MockStorage) GetMySubboards(ctx context.Context, user, board uuid.UUID) ([]domain.Subboard, error) {
	if m.GetMySubboardsFunc != nil {
		return m.GetMySubboardsFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockStorage) ReplaceSubboardMemberships(ctx context.Context, user, board uuid.UUID, ids []uuid.UUID) error {
	if m.ReplaceSubboardMembershipsFunc != nil {
		return m.ReplaceSubboardMembershipsFunc(ctx, user, board, ids)
	}
	return nil
}

// LiveSubboardIDs accepts every id by default.
func (m *MockStorage) LiveSubboardIDs(ctx context.Context, board uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if m.LiveSubboardIDsFunc != nil {
		return m.LiveSubboardIDsFunc(ctx, board, ids)
	}
	return ids, nil
}

func (m *MockStorage) RecipientLineIDs(ctx context.Context, subboards []uuid.UUID) ([]domain.LineID, error) {
	if m.RecipientLineIDsFunc != nil {
		return m.RecipientLineIDsFunc(ctx, subboards)
	}
	return nil, nil
}

func (m *MockStorage) CreateMessage(ctx context.Context, data domain.MessageCreationData) (domain.Message, error) {
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, data)
	}
	return domain.Message{}, nil
}

func (m *MockStorage) GetMessages(ctx context.Context, board uuid.UUID) ([]domain.Message, error) {
	if m.GetMessagesFunc != nil {
		return m.GetMessagesFunc(ctx, board)
	}
	return nil, nil
}

func (m *MockStorage) GetMessage(ctx context.Context, board, message uuid.UUID) (domain.Message, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(ctx, board, message)
	}
	return domain.Message{}, nil
}

func (m *MockStorage) GetMyMessages(ctx context.Context, user, board uuid.UUID) ([]domain.Message, error) {
	if m.GetMyMessagesFunc != nil {
		return m.GetMyMessagesFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockStorage) DeleteMessage(ctx context.Context, board, message uuid.UUID) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, board, message)
	}
	return nil
}

func (m *MockStorage) MarkMessageSent(ctx context.Context, message uuid.UUID, at time.Time) error {
	if m.MarkMessageSentFunc != nil {
		return m.MarkMessageSentFunc(ctx, message, at)
	}
	return nil
}

func (m *MockStorage) CreateDirectMessages(ctx context.Context, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error) {
	if m.CreateDirectMessagesFunc != nil {
		return m.CreateDirectMessagesFunc(ctx, data)
	}
	return nil, nil
}

func (m *MockStorage) GetSentDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error) {
	if m.GetSentDirectMessagesFunc != nil {
		return m.GetSentDirectMessagesFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockStorage) GetReceivedDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error) {
	if m.GetReceivedDirectMessagesFunc != nil {
		return m.GetReceivedDirectMessagesFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockStorage) GetDirectMessage(ctx context.Context, id uuid.UUID) (domain.DirectMessage, error) {
	if m.GetDirectMessageFunc != nil {
		return m.GetDirectMessageFunc(ctx, id)
	}
	return domain.DirectMessage{}, nil
}

func (m *MockStorage) DeleteDirectMessage(ctx context.Context, id uuid.UUID) error {
	if m.DeleteDirectMessageFunc != nil {
		return m.DeleteDirectMessageFunc(ctx, id)
	}
	return nil
}

func (m *MockStorage) MarkDirectMessageSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.MarkDirectMessageSentFunc != nil {
		return m.MarkDirectMessageSentFunc(ctx, id, at)
	}
	return nil
}

func (m *MockStorage) CreateForm(ctx context.Context, data domain.FormCreationData) (domain.Form, error) {
	if m.CreateFormFunc != nil {
		return m.CreateFormFunc(ctx, data)
	}
	return domain.Form{}, nil
}

func (m *MockStorage) GetForms(ctx context.Context, board uuid.UUID) ([]domain.Form, error) {
	if m.GetFormsFunc != nil {
		return m.GetFormsFunc(ctx, board)
	}
	return nil, nil
}

func (m *MockStorage) GetForm(ctx context.Context, board, form uuid.UUID) (domain.Form, error) {
	if m.GetFormFunc != nil {
		return m.GetFormFunc(ctx, board, form)
	}
	return domain.Form{}, nil
}

func (m *MockStorage) GetMyForms(ctx context.Context, user, board uuid.UUID) ([]domain.Form, error) {
	if m.GetMyFormsFunc != nil {
		return m.GetMyFormsFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockStorage) GetMyFormResponses(ctx context.Context, user, form uuid.UUID) ([]domain.FormResponse, error) {
	if m.GetMyFormResponsesFunc != nil {
		return m.GetMyFormResponsesFunc(ctx, user, form)
	}
	return nil, nil
}

func (m *MockStorage) CreateFormResponse(ctx context.Context, data domain.FormResponseCreationData) (domain.FormResponse, error) {
	if m.CreateFormResponseFunc != nil {
		return m.CreateFormResponseFunc(ctx, data)
	}
	return domain.FormResponse{}, nil
}

func (m *MockStorage) DeleteForm(ctx context.Context, board, form uuid.UUID) error {
	if m.DeleteFormFunc != nil {
		return m.DeleteFormFunc(ctx, board, form)
	}
	return nil
}

func (m *MockStorage) MarkFormSent(ctx context.Context, form uuid.UUID, at time.Time) error {
	if m.MarkFormSentFunc != nil {
		return m.MarkFormSentFunc(ctx, form, at)
	}
	return nil
}

// MockNotifier records what would have been delivered.
type MockNotifier struct {
	NotifyMessageFunc       func(ctx context.Context, msg domain.Message, to []domain.LineID) error
	NotifyFormFunc          func(ctx context.Context, form domain.Form, to []domain.LineID) error
	NotifyDirectMessageFunc func(ctx context.Context, dm domain.DirectMessage) error
}

func (m *MockNotifier) NotifyMessage(ctx context.Context, msg domain.Message, to []domain.LineID) error {
	if m.NotifyMessageFunc != nil {
		return m.NotifyMessageFunc(ctx, msg, to)
	}
	return nil
}

func (m *MockNotifier) NotifyForm(ctx context.Context, form domain.Form, to []domain.LineID) error {
	if m.NotifyFormFunc != nil {
		return m.NotifyFormFunc(ctx, form, to)
	}
	return nil
}

func (m *MockNotifier) NotifyDirectMessage(ctx context.Context, dm domain.DirectMessage) error {
	if m.NotifyDirectMessageFunc != nil {
		return m.NotifyDirectMessageFunc(ctx, dm)
	}
	return nil
}

// fixture builds a board administered by admin with member as its only member.
type fixture struct {
	admin, member, stranger domain.User
	board                   domain.Board
}

func newFixture() fixture {
	admin := domain.User{UserUUID: uuid.New(), Username: "admin"}
	member := domain.User{UserUUID: uuid.New(), Username: "member", LineUser: &domain.LineUser{UserID: "Umember"}}
	stranger := domain.User{UserUUID: uuid.New(), Username: "stranger"}
	board := domain.Board{
		BoardUUID:     uuid.New(),
		BoardID:       "class-1",
		BoardName:     "Class 1",
		Administrator: admin,
		Members:       []domain.User{member},
	}
	return fixture{admin: admin, member: member, stranger: stranger, board: board}
}

// storage returns a MockStorage that knows only the fixture board.
func (f fixture) storage() *MockStorage {
	return &MockStorage{
		GetBoardFunc: func(_ context.Context, id uuid.UUID) (domain.Board, error) {
			if id != f.board.BoardUUID {
				return domain.Board{}, errors.NotFound("Board not found")
			}
			return f.board, nil
		},
	}
}
