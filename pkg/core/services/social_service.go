package services

import (
	"context"
	"fmt"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
	"github.com/wadjakorntonsri/go-social/pkg/metrics"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

type socialStore interface {
	ports.UserRepository
	ports.FollowRepository
}

type SocialService struct {
	repo socialStore
	auth *Authenticator
}

func NewSocialService(repo socialStore, auth *Authenticator) *SocialService {
	return &SocialService{repo: repo, auth: auth}
}

// Follow adds an edge from the authenticated user to followee.
func (s *SocialService) Follow(ctx context.Context, creds domain.Credentials, followee string) (err error) {
	defer func() { metrics.RecordOperation("follow", err) }()

	follower, target, err := s.resolvePair(ctx, creds, followee)
	if err != nil {
		return err
	}
	if follower.ID == target.ID {
		return fmt.Errorf("%w: users cannot follow themselves", domain.ErrBadRequest)
	}
	if err := s.repo.AddFollow(ctx, follower.ID, target.ID); err != nil {
		return err
	}
	logger.Info("user_followed", "follower_id", follower.ID, "followee_id", target.ID)
	return nil
}

// Unfollow removes the edge; it must exist.
func (s *SocialService) Unfollow(ctx context.Context, creds domain.Credentials, followee string) (err error) {
	defer func() { metrics.RecordOperation("unfollow", err) }()

	follower, target, err := s.resolvePair(ctx, creds, followee)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveFollow(ctx, follower.ID, target.ID); err != nil {
		return err
	}
	logger.Info("user_unfollowed", "follower_id", follower.ID, "followee_id", target.ID)
	return nil
}

func (s *SocialService) ListFollowers(ctx context.Context, username string) ([]domain.User, error) {
	user, err := activeUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(users), nil
}

func (s *SocialService) ListFollowing(ctx context.Context, username string) ([]domain.User, error) {
	user, err := activeUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(users), nil
}

// IsFollowing reports whether follower has an edge to followee. Both must be
// active users.
func (s *SocialService) IsFollowing(ctx context.Context, follower, followee string) (bool, error) {
	from, err := activeUser(ctx, s.repo, follower)
	if err != nil {
		return false, err
	}
	to, err := activeUser(ctx, s.repo, followee)
	if err != nil {
		return false, err
	}
	return s.repo.IsFollowing(ctx, from.ID, to.ID)
}

func (s *SocialService) resolvePair(ctx context.Context, creds domain.Credentials, followee string) (*domain.User, *domain.User, error) {
	follower, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, nil, err
	}
	target, err := activeUser(ctx, s.repo, followee)
	if err != nil {
		return nil, nil, err
	}
	return follower, target, nil
}
