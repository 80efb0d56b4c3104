package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mosacup/webboard/backend/internal/handler"
	"github.com/mosacup/webboard/backend/internal/middleware/ratelimiter"
	"github.com/mosacup/webboard/backend/internal/setup"
	mw "github.com/mosacup/webboard/shared/middleware"
	"github.com/mosacup/webboard/shared/middleware/metrics"
)

// New creates the chi router with all the routes.
func New(deps *setup.Dependencies) http.Handler {
	rl := deps.Config.AuthRateLimit()
	return Routes(deps.Handler, deps.AuthMiddleware.NeedAuth(), Options{
		CORSOrigins: deps.Config.Public.CORSOrigins,
		HTTPS:       deps.Config.Public.HTTPS,
		AuthLimiter: ratelimiter.New(rl.PerMinute, rl.Burst, time.Hour),
	})
}

type Options struct {
	CORSOrigins []string
	HTTPS       bool
	AuthLimiter *ratelimiter.Limiter // nil disables limiting
}

// Routes wires handlers to paths. needAuth guards everything except signup,
// signin and the chat webhook.
func Routes(h *handler.Handler, needAuth func(http.Handler) http.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(opts.HTTPS))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.AuthLimiter != nil {
				r.Use(ratelimiter.Middleware(opts.AuthLimiter, ratelimiter.ClientIP))
			}
			r.Post("/signup", h.Signup)
			r.Post("/signin", h.Signin)
		})
		r.Post("/callback", h.Callback)

		r.Group(func(r chi.Router) {
			r.Use(needAuth)

			r.Get("/me", h.GetMe)
			r.Delete("/me", h.DeleteMe)
			r.Post("/me/update_password", h.UpdatePassword)
			r.Post("/me/update_display_name", h.UpdateDisplayName)

			r.Get("/boards", h.GetBoards)
			r.Post("/board", h.CreateBoard)
			r.Get("/my_boards", h.GetMyBoards)
			r.Post("/update_my_boards", h.UpdateMyBoards)

			r.Route("/board/{board}", func(r chi.Router) {
				r.Get("/", h.GetBoard)
				r.Delete("/", h.DeleteBoard)

				r.Get("/subboards", h.GetSubboards)
				r.Post("/subboard", h.CreateSubboard)
				r.Get("/subboard/{subboard}", h.GetSubboard)
				r.Delete("/subboard/{subboard}", h.DeleteSubboard)
				r.Get("/available_subboards", h.GetAvailableSubboards)
				r.Get("/my_subboards", h.GetMySubboards)
				r.Post("/update_my_subboards", h.UpdateMySubboards)

				r.Get("/messages", h.GetMessages)
				r.Post("/message", h.CreateMessage)
				r.Get("/message/{message}", h.GetMessage)
				r.Delete("/message/{message}", h.DeleteMessage)
				r.Get("/my_messages", h.GetMyMessages)

				r.Get("/forms", h.GetForms)
				r.Post("/form", h.CreateForm)
				r.Delete("/form/{form}", h.DeleteForm)
				r.Get("/my_forms", h.GetMyForms)
				r.Get("/form/{form}/my_form_responses", h.GetMyFormResponses)
				r.Post("/form/{form}/my_form_response", h.CreateMyFormResponse)
			})

			r.Get("/direct_messages", h.GetDirectMessages)
			r.Post("/direct_message", h.CreateDirectMessage)
			r.Delete("/direct_message/{direct_message}", h.DeleteDirectMessage)
			r.Get("/my_direct_messages", h.GetMyDirectMessages)
		})
	})

	return r
}
