package handler

import (
	"context"
	"net/http"

	"github.com/mosacup/webboard/backend/internal/service"
	"github.com/mosacup/webboard/shared/domain"
)

// HealthChecker is implemented by the storage layer for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// WebhookParser verifies and decodes a chat platform callback.
type WebhookParser interface {
	ParseRequest(r *http.Request) ([]domain.ChatEvent, error)
}

type Services struct {
	Auth          service.AuthService
	User          service.UserService
	Board         service.BoardService
	Subboard      service.SubboardService
	Message       service.MessageService
	DirectMessage service.DirectMessageService
	Form          service.FormService
	Chat          service.ChatService
}

type Handler struct {
	auth          service.AuthService
	user          service.UserService
	board         service.BoardService
	subboard      service.SubboardService
	message       service.MessageService
	directMessage service.DirectMessageService
	form          service.FormService
	chat          service.ChatService
	webhook       WebhookParser
	health        HealthChecker
}

func New(s Services, webhook WebhookParser, health HealthChecker) *Handler {
	return &Handler{
		auth:          s.Auth,
		user:          s.User,
		board:         s.Board,
		subboard:      s.Subboard,
		message:       s.Message,
		directMessage: s.DirectMessage,
		form:          s.Form,
		chat:          s.Chat,
		webhook:       webhook,
		health:        health,
	}
}
