package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

type hashtagStore interface {
	ports.HashtagRepository
	ListTweetsByHashtag(ctx context.Context, hashtagID int64) ([]domain.Tweet, error)
}

type HashtagService struct {
	repo hashtagStore
}

func NewHashtagService(repo hashtagStore) *HashtagService {
	return &HashtagService{repo: repo}
}

func (s *HashtagService) ListHashtags(ctx context.Context) ([]domain.Hashtag, error) {
	return s.repo.ListHashtags(ctx)
}

// GetTweetsByTag lists visible tweets carrying label, newest first. A
// leading '#' is ignored.
func (s *HashtagService) GetTweetsByTag(ctx context.Context, label string) ([]domain.Tweet, error) {
	label = strings.TrimPrefix(label, "#")
	tag, err := s.repo.GetHashtagByLabel(ctx, label)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, fmt.Errorf("%w: hashtag %q", domain.ErrNotFound, label)
	}
	tweets, err := s.repo.ListTweetsByHashtag(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(tweets), nil
}

func (s *HashtagService) TagExists(ctx context.Context, label string) (bool, error) {
	tag, err := s.repo.GetHashtagByLabel(ctx, strings.TrimPrefix(label, "#"))
	if err != nil {
		return false, err
	}
	return tag != nil, nil
}
