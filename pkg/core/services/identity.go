package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator resolves credentials to active users. Every mutating
// operation re-authenticates; there is no session state.
type Authenticator struct {
	users ports.UserRepository
	cost  int
}

func NewAuthenticator(users ports.UserRepository, cost int) *Authenticator {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{users: users, cost: cost}
}

// Authenticate returns the active user the credentials belong to.
func (a *Authenticator) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrBadRequest)
	}
	user, err := a.users.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		return nil, err
	}
	if !user.IsVisible() {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, creds.Username)
	}
	if !a.Matches(user, creds.Password) {
		return nil, fmt.Errorf("%w: credentials are not correct", domain.ErrNotAuthorized)
	}
	return user, nil
}

// AuthorizeOwnership fails unless actor and owner are the same user.
func (a *Authenticator) AuthorizeOwnership(actor, owner *domain.User) error {
	if actor == nil || owner == nil || actor.ID != owner.ID {
		return fmt.Errorf("%w: not the owner", domain.ErrNotAuthorized)
	}
	return nil
}

// Matches reports whether secret is the password of user, deleted or not.
func (a *Authenticator) Matches(user *domain.User, secret string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) == nil
}

func (a *Authenticator) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is too long", domain.ErrBadRequest)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// asNotAuthorized folds every authentication failure except infrastructure
// errors into ErrNotAuthorized.
func asNotAuthorized(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrBadRequest) {
		return fmt.Errorf("%w: credentials are not correct", domain.ErrNotAuthorized)
	}
	return err
}
