// Package services holds the social graph and timeline engine. Services
// depend only on the ports; visibility of soft-deleted users and tweets is
// decided here, never in the store.
package services

import "github.com/wadjakorntonsri/go-social/pkg/ports"

var (
	_ ports.UserService     = (*UserService)(nil)
	_ ports.SocialService   = (*SocialService)(nil)
	_ ports.TweetService    = (*TweetService)(nil)
	_ ports.TimelineService = (*TimelineService)(nil)
	_ ports.HashtagService  = (*HashtagService)(nil)
	_ ports.AdminService    = (*AdminService)(nil)
)

// Set is the full engine wired against one store
type Set struct {
	Auth     *Authenticator
	Users    *UserService
	Social   *SocialService
	Tweets   *TweetService
	Timeline *TimelineService
	Hashtags *HashtagService
	Admin    *AdminService
}

func NewSet(store ports.Store, bcryptCost int) *Set {
	auth := NewAuthenticator(store, bcryptCost)
	return &Set{
		Auth:     auth,
		Users:    NewUserService(store, auth),
		Social:   NewSocialService(store, auth),
		Tweets:   NewTweetService(store, auth),
		Timeline: NewTimelineService(store),
		Hashtags: NewHashtagService(store),
		Admin:    NewAdminService(store),
	}
}
