package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-social/pkg/config"
	"github.com/wadjakorntonsri/go-social/pkg/metrics"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services) http.Handler {
	h := NewHTTPHandler(svc)
	mw := NewMiddleware(cfg)
	authHandler := NewAuthHandler(cfg)

	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, instrument(pattern, fn))
	}

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Users. {handle} is written @name by clients.
	route("GET /api/v1/users", h.ListUsers)
	route("POST /api/v1/users", h.CreateUser)
	route("GET /api/v1/users/{handle}", h.GetUser)
	route("PATCH /api/v1/users/{handle}", h.UpdateProfile)
	route("DELETE /api/v1/users/{handle}", h.DeleteUser)
	route("POST /api/v1/users/{handle}/follow", h.Follow)
	route("POST /api/v1/users/{handle}/unfollow", h.Unfollow)
	route("GET /api/v1/users/{handle}/feed", h.Feed)
	route("GET /api/v1/users/{handle}/tweets", h.UserTweets)
	route("GET /api/v1/users/{handle}/mentions", h.Mentions)
	route("GET /api/v1/users/{handle}/followers", h.Followers)
	route("GET /api/v1/users/{handle}/following", h.Following)
	route("GET /api/v1/users/{handle}/following/{target}", h.IsFollowing)

	// Tweets
	route("GET /api/v1/tweets", h.ListTweets)
	route("POST /api/v1/tweets", h.PostTweet)
	route("GET /api/v1/tweets/{id}", h.GetTweet)
	route("DELETE /api/v1/tweets/{id}", h.DeleteTweet)
	route("POST /api/v1/tweets/{id}/like", h.Like)
	route("POST /api/v1/tweets/{id}/reply", h.Reply)
	route("POST /api/v1/tweets/{id}/repost", h.Repost)
	route("GET /api/v1/tweets/{id}/tags", h.Tags)
	route("GET /api/v1/tweets/{id}/likes", h.Likes)
	route("GET /api/v1/tweets/{id}/context", h.Context)
	route("GET /api/v1/tweets/{id}/replies", h.Replies)
	route("GET /api/v1/tweets/{id}/reposts", h.Reposts)
	route("GET /api/v1/tweets/{id}/mentions", h.MentionedUsers)

	// Hashtags & validation
	route("GET /api/v1/tags", h.ListHashtags)
	route("GET /api/v1/tags/{label}", h.TaggedTweets)
	route("GET /api/v1/validate/tag/exists/{label}", h.TagExists)
	route("GET /api/v1/validate/username/exists/{handle}", h.UsernameExists)
	route("GET /api/v1/validate/username/available/{handle}", h.UsernameAvailable)

	// Operator Routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /api/v1/admin/dump", instrument("GET /api/v1/admin/dump", h.Dump))
	adminMux.HandleFunc("GET /api/v1/admin/stats", instrument("GET /api/v1/admin/stats", h.Stats))
	mux.Handle("/api/v1/admin/", mw.AuthMiddleware(adminMux))

	return mw.RequestLogger(mw.RateLimit(mux))
}
