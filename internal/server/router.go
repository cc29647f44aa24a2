// Package server assembles the HTTP API and the gRPC health endpoint.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	chathandler "socialapp/internal/chat/handler"
	"socialapp/internal/common"
	"socialapp/internal/config"
	"socialapp/internal/feed"
	"socialapp/internal/media"
	"socialapp/internal/notif"
	"socialapp/internal/user"
)

// Handlers groups the per-domain HTTP handlers the router mounts.
type Handlers struct {
	Users         *user.Handler
	Feed          *feed.FeedHandlers
	Chat          *chathandler.ChatHandler
	Notifications *notif.NotificationHandler
	Media         *media.HTTPServer
}

// NewRouter wires every route behind request id, recovery, access log and CORS.
func NewRouter(cfg *config.Config, log *zap.Logger, db *gorm.DB, auth *Authenticator, h Handlers) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		common.WriteError(w, r, log, common.NewNotFoundError("route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"error": map[string]string{"kind": string(common.KindValidation), "message": "method not allowed"},
		})
	})

	limiter := NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.Burst, log)
	protected := func(fn http.HandlerFunc) http.Handler { return auth.Require(fn) }

	router.HandleFunc("/media/{fileId}", h.Media.ServeFile).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Handle("/health", healthHandler(db)).Methods(http.MethodGet)

	// Auth routes
	api.Handle("/auth/register", limiter.Limit(http.HandlerFunc(h.Users.Register))).Methods(http.MethodPost)
	api.Handle("/auth/login", limiter.Limit(http.HandlerFunc(h.Users.Login))).Methods(http.MethodPost)
	api.Handle("/auth/logout", protected(h.Users.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", protected(h.Users.Me)).Methods(http.MethodGet)
	api.Handle("/auth/stats", protected(h.Users.MyStats)).Methods(http.MethodGet)
	api.Handle("/auth/update", protected(h.Users.UpdateProfile)).Methods(http.MethodPut)
	api.Handle("/auth/delete", protected(h.Users.DeleteAccount)).Methods(http.MethodDelete)

	// Post routes; my-posts must precede {id}
	api.Handle("/posts", auth.Optional(http.HandlerFunc(h.Feed.ListFeed))).Methods(http.MethodGet)
	api.Handle("/posts", protected(h.Feed.CreatePost)).Methods(http.MethodPost)
	api.Handle("/posts/my-posts", protected(h.Feed.ListMyPosts)).Methods(http.MethodGet)
	api.Handle("/posts/{id}", protected(h.Feed.GetPost)).Methods(http.MethodGet)
	api.Handle("/posts/{id}", protected(h.Feed.DeletePost)).Methods(http.MethodDelete)
	api.Handle("/posts/{id}/like", protected(h.Feed.ToggleLike)).Methods(http.MethodPost)
	api.Handle("/posts/{id}/comments", protected(h.Feed.AddComment)).Methods(http.MethodPost)

	// User routes; search must precede {id}
	api.Handle("/users/search", protected(h.Users.SearchUsers)).Methods(http.MethodGet)
	api.Handle("/users/follow/{id}", protected(h.Users.ToggleFollow)).Methods(http.MethodPost)
	api.Handle("/users/{id}", protected(h.Users.GetUser)).Methods(http.MethodGet)
	api.Handle("/users/{id}/stats", protected(h.Users.UserStats)).Methods(http.MethodGet)
	api.Handle("/users/{id}/posts", protected(h.Feed.ListUserPosts)).Methods(http.MethodGet)
	api.Handle("/users/{id}/followers", protected(h.Users.Followers)).Methods(http.MethodGet)
	api.Handle("/users/{id}/following", protected(h.Users.Following)).Methods(http.MethodGet)

	// Message routes; search must precede {otherUserId}
	api.Handle("/messages", protected(h.Chat.ListConversations)).Methods(http.MethodGet)
	api.Handle("/messages", protected(h.Chat.SendMessage)).Methods(http.MethodPost)
	api.Handle("/messages/search", protected(h.Users.SearchContacts)).Methods(http.MethodGet)
	api.Handle("/messages/{otherUserId}", protected(h.Chat.GetConversation)).Methods(http.MethodGet)
	api.Handle("/messages/{otherUserId}", protected(h.Chat.DeleteConversation)).Methods(http.MethodDelete)

	// Notification routes
	api.Handle("/notifications", protected(h.Notifications.List)).Methods(http.MethodGet)
	api.Handle("/notifications", protected(h.Notifications.Create)).Methods(http.MethodPost)
	api.Handle("/notifications/unread-count", protected(h.Notifications.UnreadCount)).Methods(http.MethodGet)
	api.Handle("/notifications/{id}", protected(h.Notifications.MarkRead)).Methods(http.MethodPatch)

	var handler http.Handler = router
	handler = corsMiddleware(cfg.Server.AllowedOrigin)(handler)
	handler = loggingMiddleware(log)(handler)
	handler = recoveryMiddleware(log)(handler)
	handler = requestIDMiddleware(handler)
	return handler
}
