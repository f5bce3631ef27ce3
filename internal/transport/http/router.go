package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"socialfeed/internal/auth"
	"socialfeed/internal/handler"
	"socialfeed/internal/httputil"
	"socialfeed/internal/logger"
	authmw "socialfeed/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler         *handler.UserHandler
	FollowHandler       *handler.FollowHandler
	FeedHandler         *handler.FeedHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	NotificationHandler *handler.NotificationHandler
	Tokens              *auth.TokenManager
	Logger              zerolog.Logger
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.HTTPMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Every other route accepts anonymous callers; mutations answer them
	// with {"skipped": true}.
	r.Group(func(r chi.Router) {
		r.Use(authmw.PrincipalMiddleware(cfg.Tokens))

		r.Get("/me", cfg.UserHandler.Me)
		r.Patch("/me/profile", cfg.UserHandler.UpdateProfile)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", cfg.FeedHandler.GetPosts)
			r.Post("/", cfg.PostHandler.Create)
			r.Delete("/{id}", cfg.PostHandler.Delete)
			r.Post("/{id}/like", cfg.PostHandler.ToggleLike)
			r.Post("/{id}/comments", cfg.CommentHandler.Create)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/suggestions", cfg.UserHandler.Suggestions)
			r.Post("/{id}/follow", cfg.FollowHandler.Toggle)
			r.Get("/{id}/following", cfg.FollowHandler.IsFollowing)
		})

		r.Route("/profiles/{username}", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.GetProfile)
			r.Get("/posts", cfg.UserHandler.GetProfilePosts)
			r.Get("/likes", cfg.UserHandler.GetProfileLikes)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Post("/read", cfg.NotificationHandler.MarkRead)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
			r.Get("/unread-count", cfg.NotificationHandler.UnreadCount)
		})
	})

	return r
}
