package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/core/services"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

// Services bundles the core operations the HTTP adapter exposes
type Services struct {
	Users    ports.UserService
	Social   ports.SocialService
	Tweets   ports.TweetService
	Timeline ports.TimelineService
	Hashtags ports.HashtagService
	Admin    ports.AdminService
}

type HTTPHandler struct {
	svc Services
}

// FromSet exposes a wired service set through the port interfaces
func FromSet(set *services.Set) Services {
	return Services{
		Users:    set.Users,
		Social:   set.Social,
		Tweets:   set.Tweets,
		Timeline: set.Timeline,
		Hashtags: set.Hashtags,
		Admin:    set.Admin,
	}
}

func NewHTTPHandler(svc Services) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// CreateUserRequest payload, also used for profile updates
type CreateUserRequest struct {
	Credentials domain.Credentials `json:"credentials"`
	Profile     domain.Profile     `json:"profile"`
}

// TweetRequest payload for posts and replies
type TweetRequest struct {
	Content     string             `json:"content"`
	Credentials domain.Credentials `json:"credentials"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type availableResponse struct {
	Available bool `json:"available"`
}

type followingResponse struct {
	Following bool `json:"following"`
}

// --- Users ---

func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

func (h *HTTPHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.Users.CreateUser(r.Context(), req.Credentials, req.Profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *HTTPHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.GetUser(r.Context(), handle(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *HTTPHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), handle(r), req.Credentials, req.Profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *HTTPHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	user, err := h.svc.Users.DeleteUser(r.Context(), handle(r), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *HTTPHandler) Follow(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if err := h.svc.Social.Follow(r.Context(), creds, handle(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if err := h.svc.Social.Unfollow(r.Context(), creds, handle(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) Feed(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.svc.Timeline.GetFeed(r.Context(), handle(r))
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) UserTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.svc.Timeline.GetTweetsByUsername(r.Context(), handle(r))
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) Mentions(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.svc.Timeline.GetMentions(r.Context(), handle(r))
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) Followers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Social.ListFollowers(r.Context(), handle(r))
	respondList(w, r, users, err)
}

func (h *HTTPHandler) Following(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Social.ListFollowing(r.Context(), handle(r))
	respondList(w, r, users, err)
}

func (h *HTTPHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.Social.IsFollowing(r.Context(), handle(r), strings.TrimPrefix(r.PathValue("target"), "@"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, followingResponse{Following: ok})
}

// --- Tweets ---

func (h *HTTPHandler) ListTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.svc.Timeline.GetAllTweets(r.Context())
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) PostTweet(w http.ResponseWriter, r *http.Request) {
	var req TweetRequest
	if !decode(w, r, &req) {
		return
	}
	tweet, err := h.svc.Tweets.PostTweet(r.Context(), req.Content, req.Credentials)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tweet)
}

func (h *HTTPHandler) GetTweet(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	tweet, err := h.svc.Tweets.GetTweet(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tweet)
}

func (h *HTTPHandler) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	tweet, err := h.svc.Tweets.DeleteTweet(r.Context(), id, creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tweet)
}

func (h *HTTPHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if err := h.svc.Tweets.LikeTweet(r.Context(), id, creds); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	var req TweetRequest
	if !decode(w, r, &req) {
		return
	}
	tweet, err := h.svc.Tweets.CreateReply(r.Context(), id, req.Content, req.Credentials)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tweet)
}

func (h *HTTPHandler) Repost(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	tweet, err := h.svc.Tweets.CreateRepost(r.Context(), id, creds)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tweet)
}

func (h *HTTPHandler) Tags(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	tags, err := h.svc.Timeline.GetHashtagsForTweet(r.Context(), id)
	respondList(w, r, tags, err)
}

func (h *HTTPHandler) Likes(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	users, err := h.svc.Timeline.GetLikingUsers(r.Context(), id)
	respondList(w, r, users, err)
}

func (h *HTTPHandler) Context(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Timeline.GetContext(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) Replies(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	tweets, err := h.svc.Timeline.GetReplies(r.Context(), id)
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) Reposts(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	tweets, err := h.svc.Timeline.GetReposts(r.Context(), id)
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) MentionedUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	users, err := h.svc.Timeline.GetMentionedUsers(r.Context(), id)
	respondList(w, r, users, err)
}

// --- Hashtags & validation ---

func (h *HTTPHandler) ListHashtags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Hashtags.ListHashtags(r.Context())
	respondList(w, r, tags, err)
}

func (h *HTTPHandler) TaggedTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.svc.Hashtags.GetTweetsByTag(r.Context(), r.PathValue("label"))
	respondList(w, r, tweets, err)
}

func (h *HTTPHandler) TagExists(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.Hashtags.TagExists(r.Context(), r.PathValue("label"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existsResponse{Exists: ok})
}

func (h *HTTPHandler) UsernameExists(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.Users.UsernameExists(r.Context(), handle(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existsResponse{Exists: ok})
}

func (h *HTTPHandler) UsernameAvailable(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.Users.UsernameAvailable(r.Context(), handle(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availableResponse{Available: ok})
}

// --- Admin ---

func (h *HTTPHandler) Dump(w http.ResponseWriter, r *http.Request) {
	dump, err := h.svc.Admin.Dump(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.Info("admin_dump", "operator", operatorEmail(r.Context()), "users", len(dump.Users), "tweets", len(dump.Tweets))
	writeJSON(w, http.StatusOK, dump)
}

func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- helpers ---

// handle returns the {handle} path value with its '@' sigil removed
func handle(r *http.Request) string {
	return strings.TrimPrefix(r.PathValue("handle"), "@")
}

func tweetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tweet id"})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func respondList[T any](w http.ResponseWriter, r *http.Request, items []T, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

// nonNil keeps empty lists serialised as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request_failed", "request_id", requestID(r.Context()), "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
