package setup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mosacup/webboard/backend/internal/handler"
	"github.com/mosacup/webboard/backend/internal/line"
	"github.com/mosacup/webboard/backend/internal/service"
	"github.com/mosacup/webboard/backend/internal/storage/dedup"
	"github.com/mosacup/webboard/backend/internal/storage/pg"
	"github.com/mosacup/webboard/shared/config"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/jwt"
	"github.com/mosacup/webboard/shared/logger"
	mw "github.com/mosacup/webboard/shared/middleware"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Jwt            jwt.JwtService
	LineClient     *line.Client // nil when the chat channel is not configured

	closers []func() error
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Config: cfg, Storage: storage}
	deps.closers = append(deps.closers, storage.Cleanup)

	var deduper service.EventDeduper = dedup.Noop{}
	if cfg.Public.Redis.URL != "" {
		store, err := dedup.NewRedisStore(cfg.Public.Redis.URL, cfg.DedupTTL())
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("webhook dedup store: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)
		deduper = store
	} else {
		logger.Log.Warn("redis url not set, webhook events are not deduplicated")
	}

	var (
		notifier  service.Notifier = service.NoopNotifier{}
		responder service.ChatResponder
		webhook   handler.WebhookParser = disabledWebhook{}
	)
	if cfg.LineEnabled() {
		client, err := line.New(cfg)
		if err != nil {
			deps.Close()
			return nil, err
		}
		lineNotifier := line.NewNotifier(client)
		notifier, responder, webhook = lineNotifier, lineNotifier, client
		deps.LineClient = client
	} else {
		logger.Log.Warn("line channel credentials not set, chat notifications are disabled")
		responder = silentResponder{}
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	deps.Jwt = jwtService
	deps.AuthMiddleware = mw.NewAuth(jwtService, storage)

	chat := service.NewChat(storage, responder, deduper, service.ChatURLs{
		Signup:               cfg.Public.Line.SignupURL,
		SubboardRegistration: cfg.Public.Line.SubboardRegistrationURL,
	})
	deps.Handler = handler.New(handler.Services{
		Auth:          service.NewAuth(storage, jwtService),
		User:          service.NewUser(storage),
		Board:         service.NewBoard(storage),
		Subboard:      service.NewSubboard(storage),
		Message:       service.NewMessage(storage, notifier),
		DirectMessage: service.NewDirectMessage(storage, notifier),
		Form:          service.NewForm(storage, notifier),
		Chat:          chat,
	}, webhook, storage)

	return deps, nil
}

// Close releases pools in reverse order of creation.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Log.Error("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
}

// disabledWebhook rejects callbacks while no channel secret is configured.
type disabledWebhook struct{}

func (disabledWebhook) ParseRequest(*http.Request) ([]domain.ChatEvent, error) {
	return nil, internal_errors.BadRequest("Chat channel is not configured")
}

// silentResponder drops replies while the chat channel is disabled.
type silentResponder struct{}

func (silentResponder) ReplyText(context.Context, string, domain.LineID, string) error { return nil }
func (silentResponder) ReplyBoards(context.Context, string, domain.LineID, []domain.Board) error {
	return nil
}
func (silentResponder) ReplyDirectMessages(context.Context, string, domain.LineID, []domain.DirectMessage) error {
	return nil
}
