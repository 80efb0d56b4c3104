package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	mw "github.com/mosacup/webboard/shared/middleware"
)

type MockAuthService struct {
	SignupFunc func(ctx context.Context, data domain.SignupData) (domain.User, error)
	SigninFunc func(ctx context.Context, creds domain.Credentials) (string, error)
}

func (m *MockAuthService) Signup(ctx context.Context, data domain.SignupData) (domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, data)
	}
	return domain.User{UserUUID: uuid.New(), Username: data.Username}, nil
}

func (m *MockAuthService) Signin(ctx context.Context, creds domain.Credentials) (string, error) {
	if m.SigninFunc != nil {
		return m.SigninFunc(ctx, creds)
	}
	return "token", nil
}

type MockUserService struct {
	UpdatePasswordFunc    func(ctx context.Context, user domain.User, newPassword string) error
	UpdateDisplayNameFunc func(ctx context.Context, user domain.User, newDisplayName string) error
	DeleteFunc            func(ctx context.Context, user domain.User) error
}

func (m *MockUserService) UpdatePassword(ctx context.Context, user domain.User, newPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, user, newPassword)
	}
	return nil
}

func (m *MockUserService) UpdateDisplayName(ctx context.Context, user domain.User, newDisplayName string) error {
	if m.UpdateDisplayNameFunc != nil {
		return m.UpdateDisplayNameFunc(ctx, user, newDisplayName)
	}
	return nil
}

func (m *MockUserService) Delete(ctx context.Context, user domain.User) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user)
	}
	return nil
}

type MockBoardService struct {
	CreateFunc         func(ctx context.Context, admin domain.User, data domain.BoardCreationData) (domain.Board, error)
	GetFunc            func(ctx context.Context, user domain.User, board uuid.UUID) (domain.Board, error)
	DeleteFunc         func(ctx context.Context, user domain.User, board uuid.UUID) error
	AdministeredFunc   func(ctx context.Context, user domain.User) ([]domain.Board, error)
	MyBoardsFunc       func(ctx context.Context, user domain.User) ([]domain.Board, error)
	UpdateMyBoardsFunc func(ctx context.Context, user domain.User, boards []uuid.UUID) error
}

func (m *MockBoardService) Create(ctx context.Context, admin domain.User, data domain.BoardCreationData) (domain.Board, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin, data)
	}
	return domain.Board{BoardUUID: uuid.New()}, nil
}

func (m *MockBoardService) Get(ctx context.Context, user domain.User, board uuid.UUID) (domain.Board, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, user, board)
	}
	return domain.Board{BoardUUID: board}, nil
}

func (m *MockBoardService) Delete(ctx context.Context, user domain.User, board uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user, board)
	}
	return nil
}

func (m *MockBoardService) Administered(ctx context.Context, user domain.User) ([]domain.Board, error) {
	if m.AdministeredFunc != nil {
		return m.AdministeredFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockBoardService) MyBoards(ctx context.Context, user domain.User) ([]domain.Board, error) {
	if m.MyBoardsFunc != nil {
		return m.MyBoardsFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockBoardService) UpdateMyBoards(ctx context.Context, user domain.User, boards []uuid.UUID) error {
	if m.UpdateMyBoardsFunc != nil {
		return m.UpdateMyBoardsFunc(ctx, user, boards)
	}
	return nil
}

type MockSubboardService struct {
	ListFunc       func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error)
	GetFunc        func(ctx context.Context, user domain.User, board, subboard uuid.UUID) (domain.Subboard, error)
	CreateFunc     func(ctx context.Context, user domain.User, board uuid.UUID, name string) (domain.Subboard, error)
	DeleteFunc     func(ctx context.Context, user domain.User, board, subboard uuid.UUID) error
	AvailableFunc  func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error)
	MineFunc       func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error)
	UpdateMineFunc func(ctx context.Context, user domain.User, board uuid.UUID, subboards []uuid.UUID) error
}

func (m *MockSubboardService) List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockSubboardService) Get(ctx context.Context, user domain.User, board, subboard uuid.UUID) (domain.Subboard, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, user, board, subboard)
	}
	return domain.Subboard{SubboardUUID: subboard}, nil
}

func (m *MockSubboardService) Create(ctx context.Context, user domain.User, board uuid.UUID, name string) (domain.Subboard, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, board, name)
	}
	return domain.Subboard{SubboardUUID: uuid.New(), BoardUUID: board, SubboardName: name}, nil
}

func (m *MockSubboardService) Delete(ctx context.Context, user domain.User, board, subboard uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user, board, subboard)
	}
	return nil
}

func (m *MockSubboardService) Available(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error) {
	if m.AvailableFunc != nil {
		return m.AvailableFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockSubboardService) Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Subboard, error) {
	if m.MineFunc != nil {
		return m.MineFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockSubboardService) UpdateMine(ctx context.Context, user domain.User, board uuid.UUID, subboards []uuid.UUID) error {
	if m.UpdateMineFunc != nil {
		return m.UpdateMineFunc(ctx, user, board, subboards)
	}
	return nil
}

type MockMessageService struct {
	ListFunc   func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error)
	GetFunc    func(ctx context.Context, user domain.User, board, message uuid.UUID) (domain.Message, error)
	CreateFunc func(ctx context.Context, user domain.User, data domain.MessageCreationData) (domain.Message, error)
	DeleteFunc func(ctx context.Context, user domain.User, board, message uuid.UUID) error
	MineFunc   func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error)
}

func (m *MockMessageService) List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockMessageService) Get(ctx context.Context, user domain.User, board, message uuid.UUID) (domain.Message, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, user, board, message)
	}
	return domain.Message{MessageUUID: message}, nil
}

func (m *MockMessageService) Create(ctx context.Context, user domain.User, data domain.MessageCreationData) (domain.Message, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, data)
	}
	return domain.Message{MessageUUID: uuid.New()}, nil
}

func (m *MockMessageService) Delete(ctx context.Context, user domain.User, board, message uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user, board, message)
	}
	return nil
}

func (m *MockMessageService) Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Message, error) {
	if m.MineFunc != nil {
		return m.MineFunc(ctx, user, board)
	}
	return nil, nil
}

type MockDirectMessageService struct {
	SentFunc     func(ctx context.Context, user domain.User) ([]domain.DirectMessage, error)
	ReceivedFunc func(ctx context.Context, user domain.User) ([]domain.DirectMessage, error)
	CreateFunc   func(ctx context.Context, user domain.User, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error)
	DeleteFunc   func(ctx context.Context, user domain.User, id uuid.UUID) error
}

func (m *MockDirectMessageService) Sent(ctx context.Context, user domain.User) ([]domain.DirectMessage, error) {
	if m.SentFunc != nil {
		return m.SentFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockDirectMessageService) Received(ctx context.Context, user domain.User) ([]domain.DirectMessage, error) {
	if m.ReceivedFunc != nil {
		return m.ReceivedFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockDirectMessageService) Create(ctx context.Context, user domain.User, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, data)
	}
	return []domain.DirectMessage{{DirectMessageUUID: uuid.New()}}, nil
}

func (m *MockDirectMessageService) Delete(ctx context.Context, user domain.User, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user, id)
	}
	return nil
}

type MockFormService struct {
	ListFunc        func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error)
	CreateFunc      func(ctx context.Context, user domain.User, data domain.FormCreationData) (domain.Form, error)
	DeleteFunc      func(ctx context.Context, user domain.User, board, form uuid.UUID) error
	MineFunc        func(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error)
	MyResponsesFunc func(ctx context.Context, user domain.User, board, form uuid.UUID) ([]domain.FormResponse, error)
	RespondFunc     func(ctx context.Context, user domain.User, board uuid.UUID, data domain.FormResponseCreationData) (domain.FormResponse, error)
}

func (m *MockFormService) List(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockFormService) Create(ctx context.Context, user domain.User, data domain.FormCreationData) (domain.Form, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, data)
	}
	return domain.Form{FormUUID: uuid.New()}, nil
}

func (m *MockFormService) Delete(ctx context.Context, user domain.User, board, form uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user, board, form)
	}
	return nil
}

func (m *MockFormService) Mine(ctx context.Context, user domain.User, board uuid.UUID) ([]domain.Form, error) {
	if m.MineFunc != nil {
		return m.MineFunc(ctx, user, board)
	}
	return nil, nil
}

func (m *MockFormService) MyResponses(ctx context.Context, user domain.User, board, form uuid.UUID) ([]domain.FormResponse, error) {
	if m.MyResponsesFunc != nil {
		return m.MyResponsesFunc(ctx, user, board, form)
	}
	return nil, nil
}

func (m *MockFormService) Respond(ctx context.Context, user domain.User, board uuid.UUID, data domain.FormResponseCreationData) (domain.FormResponse, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, user, board, data)
	}
	return domain.FormResponse{FormResponseUUID: uuid.New(), FormUUID: data.FormUUID}, nil
}

type MockChatService struct {
	HandleEventFunc func(ctx context.Context, ev domain.ChatEvent) error
}

func (m *MockChatService) HandleEvent(ctx context.Context, ev domain.ChatEvent) error {
	if m.HandleEventFunc != nil {
		return m.HandleEventFunc(ctx, ev)
	}
	return nil
}

type MockWebhookParser struct {
	ParseRequestFunc func(r *http.Request) ([]domain.ChatEvent, error)
}

func (m *MockWebhookParser) ParseRequest(r *http.Request) ([]domain.ChatEvent, error) {
	if m.ParseRequestFunc != nil {
		return m.ParseRequestFunc(r)
	}
	return nil, nil
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// testHandler wires a Handler with default mocks that individual tests override.
type testHandler struct {
	*Handler
	auth          *MockAuthService
	user          *MockUserService
	board         *MockBoardService
	subboard      *MockSubboardService
	message       *MockMessageService
	directMessage *MockDirectMessageService
	form          *MockFormService
	chat          *MockChatService
	webhook       *MockWebhookParser
	health        *MockHealthChecker
}

func newTestHandler() *testHandler {
	th := &testHandler{
		auth:          &MockAuthService{},
		user:          &MockUserService{},
		board:         &MockBoardService{},
		subboard:      &MockSubboardService{},
		message:       &MockMessageService{},
		directMessage: &MockDirectMessageService{},
		form:          &MockFormService{},
		chat:          &MockChatService{},
		webhook:       &MockWebhookParser{},
		health:        &MockHealthChecker{},
	}
	th.Handler = New(Services{
		Auth:          th.auth,
		User:          th.user,
		Board:         th.board,
		Subboard:      th.subboard,
		Message:       th.message,
		DirectMessage: th.directMessage,
		Form:          th.form,
		Chat:          th.chat,
	}, th.webhook, th.health)
	return th
}

var testUser = domain.User{UserUUID: uuid.New(), Username: "alice"}

// newRequest builds a request as the auth middleware and chi would hand it over.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	user := testUser
	ctx = mw.WithUser(ctx, &user)
	return req.WithContext(ctx)
}
