package services

import (
	"context"
	"fmt"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

// TimelineService answers feed, thread and per-tweet relation queries.
// Every result passes through the visibility filter.
type TimelineService struct {
	repo ports.Store
}

func NewTimelineService(repo ports.Store) *TimelineService {
	return &TimelineService{repo: repo}
}

func (s *TimelineService) GetAllTweets(ctx context.Context) ([]domain.Tweet, error) {
	tweets, err := s.repo.ListTweets(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(tweets), nil
}

// GetFeed merges the user's own tweets with those of everyone they follow,
// newest first.
func (s *TimelineService) GetFeed(ctx context.Context, username string) ([]domain.Tweet, error) {
	user, err := activeUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	following, err := s.repo.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	authors := []int64{user.ID}
	for _, f := range domain.FilterVisible(following) {
		authors = append(authors, f.ID)
	}
	tweets, err := s.repo.ListTweetsByAuthors(ctx, authors)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(tweets), nil
}

func (s *TimelineService) GetTweetsByUsername(ctx context.Context, username string) ([]domain.Tweet, error) {
	user, err := activeUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	tweets, err := s.repo.ListTweetsByAuthors(ctx, []int64{user.ID})
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(tweets), nil
}

func (s *TimelineService) GetMentions(ctx context.Context, username string) ([]domain.Tweet, error) {
	user, err := activeUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	tweets, err := s.repo.ListMentioning(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(tweets), nil
}

// GetContext returns the reply ancestry of a visible tweet, nearest parent
// first and hidden ancestors included, and its visible reply tree in
// depth-first pre-order. A hidden reply prunes its whole subtree.
func (s *TimelineService) GetContext(ctx context.Context, id int64) (*domain.Context, error) {
	target, err := visibleTweet(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	c := &domain.Context{Target: *target, Before: []domain.Tweet{}, After: []domain.Tweet{}}

	seen := map[int64]bool{target.ID: true}
	for parentID := target.InReplyToID; parentID != nil && !seen[*parentID]; {
		seen[*parentID] = true
		parent, err := s.repo.GetTweetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		c.Before = append(c.Before, *parent)
		parentID = parent.InReplyToID
	}

	if err := s.collectReplies(ctx, target.ID, map[int64]bool{target.ID: true}, &c.After); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TimelineService) collectReplies(ctx context.Context, id int64, seen map[int64]bool, out *[]domain.Tweet) error {
	replies, err := s.repo.ListReplies(ctx, id)
	if err != nil {
		return err
	}
	for _, r := range domain.FilterVisible(replies) {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		*out = append(*out, r)
		if err := s.collectReplies(ctx, r.ID, seen, out); err != nil {
			return err
		}
	}
	return nil
}

func (s *TimelineService) GetReplies(ctx context.Context, id int64) ([]domain.Tweet, error) {
	if _, err := visibleTweet(ctx, s.repo, id); err != nil {
		return nil, err
	}
	replies, err := s.repo.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(replies), nil
}

func (s *TimelineService) GetReposts(ctx context.Context, id int64) ([]domain.Tweet, error) {
	if _, err := visibleTweet(ctx, s.repo, id); err != nil {
		return nil, err
	}
	reposts, err := s.repo.ListReposts(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(reposts), nil
}

func (s *TimelineService) GetLikingUsers(ctx context.Context, id int64) ([]domain.User, error) {
	if _, err := visibleTweet(ctx, s.repo, id); err != nil {
		return nil, err
	}
	users, err := s.repo.ListLikingUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(users), nil
}

// GetMentionedUsers fails with ErrNotFound when the tweet mentions nobody.
func (s *TimelineService) GetMentionedUsers(ctx context.Context, id int64) ([]domain.User, error) {
	if _, err := visibleTweet(ctx, s.repo, id); err != nil {
		return nil, err
	}
	users, err := s.repo.ListMentionedUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	users = domain.FilterVisible(users)
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: tweet %d mentions no users", domain.ErrNotFound, id)
	}
	return users, nil
}

// GetHashtagsForTweet fails with ErrNotFound when the tweet has no hashtags.
func (s *TimelineService) GetHashtagsForTweet(ctx context.Context, id int64) ([]domain.Hashtag, error) {
	if _, err := visibleTweet(ctx, s.repo, id); err != nil {
		return nil, err
	}
	tags, err := s.repo.ListTweetHashtags(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tweet %d has no hashtags", domain.ErrNotFound, id)
	}
	return tags, nil
}
