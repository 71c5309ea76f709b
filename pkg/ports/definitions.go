package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
)

// Lookups return (nil, nil) when nothing matches. Lookups and listings include
// soft-deleted rows; visibility is decided by the services.

// UserRepository defines storage operations for users
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error // domain.ErrConflict on taken username
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error // profile and password hash
	// SetUserDeleted flips the deleted flag; domain.ErrNotFound if the user
	// is missing or already in the requested state.
	SetUserDeleted(ctx context.Context, id int64, deleted bool) error
}

// FollowRepository defines storage operations for follow edges
type FollowRepository interface {
	AddFollow(ctx context.Context, followerID, followeeID int64) error    // domain.ErrConflict if present
	RemoveFollow(ctx context.Context, followerID, followeeID int64) error // domain.ErrNotFound if absent
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64) ([]domain.User, error)
	ListFollowing(ctx context.Context, userID int64) ([]domain.User, error)
}

// TweetRepository defines storage operations for tweets and their relations.
// Tweet listings are ordered by posted time descending, then id ascending.
type TweetRepository interface {
	// CreateTweet inserts the tweet, resolves tweet.Hashtags by label
	// (creating missing ones) and attaches tweet.Mentions, all or nothing.
	CreateTweet(ctx context.Context, tweet *domain.Tweet) error
	GetTweetByID(ctx context.Context, id int64) (*domain.Tweet, error)
	ListTweets(ctx context.Context) ([]domain.Tweet, error)
	ListTweetsByAuthors(ctx context.Context, authorIDs []int64) ([]domain.Tweet, error)
	ListReplies(ctx context.Context, tweetID int64) ([]domain.Tweet, error) // oldest first
	ListReposts(ctx context.Context, tweetID int64) ([]domain.Tweet, error)
	ListMentioning(ctx context.Context, userID int64) ([]domain.Tweet, error)
	ListTweetsByHashtag(ctx context.Context, hashtagID int64) ([]domain.Tweet, error)
	MarkTweetDeleted(ctx context.Context, id int64) error // domain.ErrNotFound if absent or already deleted

	// Likes
	AddLike(ctx context.Context, userID, tweetID int64) error // idempotent
	ListLikingUsers(ctx context.Context, tweetID int64) ([]domain.User, error)

	ListMentionedUsers(ctx context.Context, tweetID int64) ([]domain.User, error)
	ListTweetHashtags(ctx context.Context, tweetID int64) ([]domain.Hashtag, error)
}

// HashtagRepository defines storage operations for hashtags
type HashtagRepository interface {
	GetHashtagByLabel(ctx context.Context, label string) (*domain.Hashtag, error)
	ListHashtags(ctx context.Context) ([]domain.Hashtag, error)
}

// Store is the full entity store the engine runs against
type Store interface {
	UserRepository
	FollowRepository
	TweetRepository
	HashtagRepository

	Dump(ctx context.Context) (*domain.Dump, error) // For migration
	Stats(ctx context.Context) (*domain.Stats, error)
}

// UserService defines account lifecycle operations
type UserService interface {
	CreateUser(ctx context.Context, creds domain.Credentials, profile domain.Profile) (*domain.User, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, username string, creds domain.Credentials, profile domain.Profile) (*domain.User, error)
	DeleteUser(ctx context.Context, username string, creds domain.Credentials) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// SocialService defines follow graph operations
type SocialService interface {
	Follow(ctx context.Context, creds domain.Credentials, followee string) error
	Unfollow(ctx context.Context, creds domain.Credentials, followee string) error
	ListFollowers(ctx context.Context, username string) ([]domain.User, error)
	ListFollowing(ctx context.Context, username string) ([]domain.User, error)
	IsFollowing(ctx context.Context, follower, followee string) (bool, error)
}

// TweetService defines tweet graph mutations
type TweetService interface {
	PostTweet(ctx context.Context, content string, creds domain.Credentials) (*domain.Tweet, error)
	CreateReply(ctx context.Context, parentID int64, content string, creds domain.Credentials) (*domain.Tweet, error)
	CreateRepost(ctx context.Context, sourceID int64, creds domain.Credentials) (*domain.Tweet, error)
	DeleteTweet(ctx context.Context, id int64, creds domain.Credentials) (*domain.Tweet, error)
	LikeTweet(ctx context.Context, id int64, creds domain.Credentials) error
	GetTweet(ctx context.Context, id int64) (*domain.Tweet, error)
}

// TimelineService defines the read side: feeds, context and indexes
type TimelineService interface {
	GetAllTweets(ctx context.Context) ([]domain.Tweet, error)
	GetFeed(ctx context.Context, username string) ([]domain.Tweet, error)
	GetTweetsByUsername(ctx context.Context, username string) ([]domain.Tweet, error)
	GetMentions(ctx context.Context, username string) ([]domain.Tweet, error)
	GetContext(ctx context.Context, id int64) (*domain.Context, error)
	GetReplies(ctx context.Context, id int64) ([]domain.Tweet, error)
	GetReposts(ctx context.Context, id int64) ([]domain.Tweet, error)
	GetLikingUsers(ctx context.Context, id int64) ([]domain.User, error)
	GetMentionedUsers(ctx context.Context, id int64) ([]domain.User, error)
	GetHashtagsForTweet(ctx context.Context, id int64) ([]domain.Hashtag, error)
}

// HashtagService defines hashtag index operations
type HashtagService interface {
	ListHashtags(ctx context.Context) ([]domain.Hashtag, error)
	GetTweetsByTag(ctx context.Context, label string) ([]domain.Tweet, error)
	TagExists(ctx context.Context, label string) (bool, error)
}

// AdminService defines operator-only operations
type AdminService interface {
	Dump(ctx context.Context) (*domain.Dump, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}
