package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wadjakorntonsri/go-social/pkg/core/content"
	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
	"github.com/wadjakorntonsri/go-social/pkg/metrics"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

type TweetService struct {
	repo ports.Store
	auth *Authenticator
	now  func() time.Time
}

func NewTweetService(repo ports.Store, auth *Authenticator) *TweetService {
	return &TweetService{repo: repo, auth: auth, now: time.Now}
}

// WithClock replaces the time source used for posted timestamps.
func (s *TweetService) WithClock(now func() time.Time) *TweetService {
	s.now = now
	return s
}

// PostTweet creates a root tweet. An unknown or deleted author is reported
// as ErrNotAuthorized on this path.
func (s *TweetService) PostTweet(ctx context.Context, text string, creds domain.Credentials) (tweet *domain.Tweet, err error) {
	defer func() { metrics.RecordOperation("post_tweet", err) }()

	if text == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrBadRequest)
	}
	author, err := s.auth.Authenticate(ctx, creds)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: credentials are not correct", domain.ErrNotAuthorized)
	}
	if err != nil {
		return nil, err
	}

	tweet, err = s.compose(ctx, author, text)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateTweet(ctx, tweet); err != nil {
		return nil, err
	}
	logger.Info("tweet_posted", "tweet_id", tweet.ID, "author_id", author.ID,
		"hashtags", len(tweet.Hashtags), "mentions", len(tweet.Mentions))
	return tweet, nil
}

// CreateReply posts text in reply to a visible parent tweet.
func (s *TweetService) CreateReply(ctx context.Context, parentID int64, text string, creds domain.Credentials) (tweet *domain.Tweet, err error) {
	defer func() { metrics.RecordOperation("create_reply", err) }()

	parent, err := s.visibleTweet(ctx, parentID)
	if err != nil {
		return nil, err
	}
	author, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, asNotAuthorized(err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrBadRequest)
	}

	tweet, err = s.compose(ctx, author, text)
	if err != nil {
		return nil, err
	}
	tweet.InReplyToID = &parent.ID
	if err := s.repo.CreateTweet(ctx, tweet); err != nil {
		return nil, err
	}
	logger.Info("tweet_replied", "tweet_id", tweet.ID, "parent_id", parent.ID, "author_id", author.ID)
	return tweet, nil
}

// CreateRepost creates a contentless tweet pointing at source.
func (s *TweetService) CreateRepost(ctx context.Context, sourceID int64, creds domain.Credentials) (tweet *domain.Tweet, err error) {
	defer func() { metrics.RecordOperation("create_repost", err) }()

	source, err := s.visibleTweet(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	author, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	tweet = &domain.Tweet{
		Author:     author,
		Posted:     s.now().UTC(),
		RepostOfID: &source.ID,
	}
	if err := s.repo.CreateTweet(ctx, tweet); err != nil {
		return nil, err
	}
	logger.Info("tweet_reposted", "tweet_id", tweet.ID, "source_id", source.ID, "author_id", author.ID)
	return tweet, nil
}

// DeleteTweet soft-deletes a tweet owned by the credentials' user and
// returns it as it was before deletion.
func (s *TweetService) DeleteTweet(ctx context.Context, id int64, creds domain.Credentials) (tweet *domain.Tweet, err error) {
	defer func() { metrics.RecordOperation("delete_tweet", err) }()

	tweet, err = s.visibleTweet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !creds.Complete() {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrBadRequest)
	}
	if creds.Username != tweet.Author.Username || !s.auth.Matches(tweet.Author, creds.Password) {
		return nil, fmt.Errorf("%w: credentials do not match the author", domain.ErrNotAuthorized)
	}
	if err := s.repo.MarkTweetDeleted(ctx, tweet.ID); err != nil {
		return nil, err
	}
	logger.Info("tweet_deleted", "tweet_id", tweet.ID, "author_id", tweet.Author.ID)
	return tweet, nil
}

// LikeTweet records that the credentials' user likes a visible tweet.
// Repeated likes are no-ops.
func (s *TweetService) LikeTweet(ctx context.Context, id int64, creds domain.Credentials) (err error) {
	defer func() { metrics.RecordOperation("like_tweet", err) }()

	user, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return err
	}
	tweet, err := s.visibleTweet(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.AddLike(ctx, user.ID, tweet.ID); err != nil {
		return err
	}
	logger.Debug("tweet_liked", "tweet_id", tweet.ID, "user_id", user.ID)
	return nil
}

func (s *TweetService) GetTweet(ctx context.Context, id int64) (*domain.Tweet, error) {
	return s.visibleTweet(ctx, id)
}

func (s *TweetService) visibleTweet(ctx context.Context, id int64) (*domain.Tweet, error) {
	return visibleTweet(ctx, s.repo, id)
}

// compose builds an unsaved tweet with its parsed hashtags and the active
// users it mentions. Unknown mentions are dropped.
func (s *TweetService) compose(ctx context.Context, author *domain.User, text string) (*domain.Tweet, error) {
	mentions, hashtags := content.Parse(text)

	tweet := &domain.Tweet{
		Author:  author,
		Posted:  s.now().UTC(),
		Content: text,
	}
	for _, label := range content.Unique(hashtags) {
		tweet.Hashtags = append(tweet.Hashtags, domain.Hashtag{Label: label})
	}
	for _, name := range content.Unique(mentions) {
		user, err := s.repo.GetUserByUsername(ctx, name)
		if err != nil {
			return nil, err
		}
		if user.IsVisible() {
			tweet.Mentions = append(tweet.Mentions, *user)
		}
	}
	return tweet, nil
}

func visibleTweet(ctx context.Context, repo ports.TweetRepository, id int64) (*domain.Tweet, error) {
	tweet, err := repo.GetTweetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tweet.IsVisible() {
		return nil, fmt.Errorf("%w: tweet %d", domain.ErrNotFound, id)
	}
	return tweet, nil
}
