package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
	"github.com/wadjakorntonsri/go-social/pkg/metrics"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

type UserService struct {
	repo ports.UserRepository
	auth *Authenticator
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository, auth *Authenticator) *UserService {
	return &UserService{repo: repo, auth: auth, now: time.Now}
}

// WithClock replaces the time source used for join dates.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// CreateUser registers a new account, or reactivates a soft-deleted one when
// the presented secret matches its stored one.
func (s *UserService) CreateUser(ctx context.Context, creds domain.Credentials, profile domain.Profile) (user *domain.User, err error) {
	defer func() { metrics.RecordOperation("create_user", err) }()

	if !creds.Complete() {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrBadRequest)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrBadRequest)
	}

	existing, err := s.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.Deleted || !s.auth.Matches(existing, creds.Password) {
			return nil, fmt.Errorf("%w: username %q is taken", domain.ErrConflict, creds.Username)
		}
		if err := s.repo.SetUserDeleted(ctx, existing.ID, false); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// someone else reactivated it first
				return nil, fmt.Errorf("%w: username %q is taken", domain.ErrConflict, creds.Username)
			}
			return nil, err
		}
		existing.Deleted = false
		logger.Info("user_reactivated", "user_id", existing.ID, "username", existing.Username)
		return existing, nil
	}

	hash, err := s.auth.Hash(creds.Password)
	if err != nil {
		return nil, err
	}
	user = &domain.User{
		Username:     creds.Username,
		Profile:      profile,
		Joined:       s.now().UTC(),
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("user_created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return activeUser(ctx, s.repo, username)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterVisible(users), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, username string, creds domain.Credentials, profile domain.Profile) (user *domain.User, err error) {
	defer func() { metrics.RecordOperation("update_profile", err) }()

	user, err = s.authorizeAs(ctx, username, creds)
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	if profile.FirstName != "" {
		user.Profile.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		user.Profile.LastName = profile.LastName
	}
	if profile.Email != "" {
		user.Profile.Email = profile.Email
	}
	if profile.Phone != "" {
		user.Profile.Phone = profile.Phone
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes the account and returns it as it was before.
func (s *UserService) DeleteUser(ctx context.Context, username string, creds domain.Credentials) (user *domain.User, err error) {
	defer func() { metrics.RecordOperation("delete_user", err) }()

	user, err = s.authorizeAs(ctx, username, creds)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetUserDeleted(ctx, user.ID, true); err != nil {
		return nil, err
	}
	logger.Info("user_deleted", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user.IsVisible(), nil
}

func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

// authorizeAs authenticates creds and requires them to belong to username.
func (s *UserService) authorizeAs(ctx context.Context, username string, creds domain.Credentials) (*domain.User, error) {
	target, err := activeUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	actor, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, asNotAuthorized(err)
	}
	if err := s.auth.AuthorizeOwnership(actor, target); err != nil {
		return nil, err
	}
	return target, nil
}

// activeUser looks up a visible user by name.
func activeUser(ctx context.Context, repo ports.UserRepository, username string) (*domain.User, error) {
	user, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsVisible() {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return user, nil
}
