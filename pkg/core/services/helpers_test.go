package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wadjakorntonsri/go-social/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	repo     *sqlite.SQLiteRepository
	auth     *Authenticator
	users    *UserService
	social   *SocialService
	tweets   *TweetService
	timeline *TimelineService
	tags     *HashtagService
	admin    *AdminService
}

// tickingClock returns a clock that advances one second per call so every
// tweet gets a distinct posted time.
func tickingClock() func() time.Time {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := sqlite.NewSQLiteRepository("file:" + filepath.Join(t.TempDir(), "social.db"))
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	clock := tickingClock()
	auth := NewAuthenticator(repo, bcrypt.MinCost)
	return &testEnv{
		repo:     repo,
		auth:     auth,
		users:    NewUserService(repo, auth).WithClock(clock),
		social:   NewSocialService(repo, auth),
		tweets:   NewTweetService(repo, auth).WithClock(clock),
		timeline: NewTimelineService(repo),
		tags:     NewHashtagService(repo),
		admin:    NewAdminService(repo),
	}
}

func creds(name string) domain.Credentials {
	return domain.Credentials{Username: name, Password: name + "-pw"}
}

func (e *testEnv) mustUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), creds(name), domain.Profile{Email: name + "@example.com"})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func (e *testEnv) mustPost(t *testing.T, author, text string) *domain.Tweet {
	t.Helper()
	tw, err := e.tweets.PostTweet(context.Background(), text, creds(author))
	if err != nil {
		t.Fatalf("PostTweet(%s, %q): %v", author, text, err)
	}
	return tw
}

func (e *testEnv) mustReply(t *testing.T, author string, parent int64, text string) *domain.Tweet {
	t.Helper()
	tw, err := e.tweets.CreateReply(context.Background(), parent, text, creds(author))
	if err != nil {
		t.Fatalf("CreateReply(%s, %d): %v", author, parent, err)
	}
	return tw
}

func (e *testEnv) mustFollow(t *testing.T, follower, followee string) {
	t.Helper()
	if err := e.social.Follow(context.Background(), creds(follower), followee); err != nil {
		t.Fatalf("Follow(%s -> %s): %v", follower, followee, err)
	}
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if want == nil {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func tweetIDs(tweets []domain.Tweet) []int64 {
	ids := make([]int64, len(tweets))
	for i, tw := range tweets {
		ids[i] = tw.ID
	}
	return ids
}

func usernames(users []domain.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int)
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
