package services

import (
	"context"
	"strings"
	"testing"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
)

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "alice")

	tests := []struct {
		name    string
		creds   domain.Credentials
		profile domain.Profile
		want    error
	}{
		{"missing username", domain.Credentials{Password: "x"}, domain.Profile{Email: "a@b.c"}, domain.ErrBadRequest},
		{"missing password", domain.Credentials{Username: "bob"}, domain.Profile{Email: "a@b.c"}, domain.ErrBadRequest},
		{"missing email", creds("bob"), domain.Profile{}, domain.ErrBadRequest},
		{"password too long", domain.Credentials{Username: "bob", Password: strings.Repeat("x", 80)}, domain.Profile{Email: "a@b.c"}, domain.ErrBadRequest},
		{"taken username", creds("alice"), domain.Profile{Email: "other@example.com"}, domain.ErrConflict},
		{"ok", creds("bob"), domain.Profile{Email: "bob@example.com", FirstName: "Bob"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := env.users.CreateUser(ctx, tt.creds, tt.profile)
			assertErr(t, err, tt.want)
			if tt.want == nil {
				if u.ID == 0 || u.Joined.IsZero() {
					t.Errorf("expected id and join date, got %+v", u)
				}
				if u.PasswordHash == tt.creds.Password {
					t.Error("password stored in clear")
				}
			}
		})
	}
}

func TestReactivationRestoresTweets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	original := env.mustUser(t, "alice")
	first := env.mustPost(t, "alice", "one")
	second := env.mustPost(t, "alice", "two")

	if _, err := env.users.DeleteUser(ctx, "alice", creds("alice")); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	_, err := env.timeline.GetTweetsByUsername(ctx, "alice")
	assertErr(t, err, domain.ErrNotFound)
	all, err := env.timeline.GetAllTweets(ctx)
	assertErr(t, err, nil)
	if len(all) != 0 {
		t.Fatalf("deleted user's tweets still visible: %v", tweetIDs(all))
	}

	// wrong secret cannot claim the name
	_, err = env.users.CreateUser(ctx, domain.Credentials{Username: "alice", Password: "nope"}, domain.Profile{Email: "x@example.com"})
	assertErr(t, err, domain.ErrConflict)

	back, err := env.users.CreateUser(ctx, creds("alice"), domain.Profile{Email: "new@example.com"})
	assertErr(t, err, nil)
	if back.ID != original.ID {
		t.Errorf("reactivation created a new user: %d != %d", back.ID, original.ID)
	}
	if back.Profile.Email != "alice@example.com" {
		t.Errorf("reactivation should keep the stored profile, got %q", back.Profile.Email)
	}

	tweets, err := env.timeline.GetTweetsByUsername(ctx, "alice")
	assertErr(t, err, nil)
	if want := []int64{second.ID, first.ID}; !equalIDs(tweetIDs(tweets), want) {
		t.Errorf("got %v, want %v", tweetIDs(tweets), want)
	}

	// active user cannot be "reactivated"
	_, err = env.users.CreateUser(ctx, creds("alice"), domain.Profile{Email: "new@example.com"})
	assertErr(t, err, domain.ErrConflict)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "alice")
	env.mustUser(t, "bob")

	_, err := env.users.UpdateProfile(ctx, "alice", creds("bob"), domain.Profile{FirstName: "Mallory"})
	assertErr(t, err, domain.ErrNotAuthorized)
	_, err = env.users.UpdateProfile(ctx, "carol", creds("alice"), domain.Profile{FirstName: "Carol"})
	assertErr(t, err, domain.ErrNotFound)

	u, err := env.users.UpdateProfile(ctx, "alice", creds("alice"), domain.Profile{FirstName: "Alice", Phone: "555"})
	assertErr(t, err, nil)
	if u.Profile.FirstName != "Alice" || u.Profile.Phone != "555" || u.Profile.Email != "alice@example.com" {
		t.Errorf("unexpected profile %+v", u.Profile)
	}

	got, err := env.users.GetUser(ctx, "alice")
	assertErr(t, err, nil)
	if got.Profile != u.Profile {
		t.Errorf("profile not persisted: %+v", got.Profile)
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "alice")
	env.mustUser(t, "bob")

	_, err := env.users.DeleteUser(ctx, "alice", creds("bob"))
	assertErr(t, err, domain.ErrNotAuthorized)

	u, err := env.users.DeleteUser(ctx, "alice", creds("alice"))
	assertErr(t, err, nil)
	if u.Deleted {
		t.Error("expected pre-deletion representation")
	}

	_, err = env.users.GetUser(ctx, "alice")
	assertErr(t, err, domain.ErrNotFound)
	_, err = env.users.DeleteUser(ctx, "alice", creds("alice"))
	assertErr(t, err, domain.ErrNotFound)

	users, err := env.users.ListUsers(ctx)
	assertErr(t, err, nil)
	if !sameNames(usernames(users), []string{"bob"}) {
		t.Errorf("ListUsers = %v", usernames(users))
	}
}

func TestUsernameLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "alice")
	env.mustUser(t, "ghost")
	if _, err := env.users.DeleteUser(ctx, "ghost", creds("ghost")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		exists    bool
		available bool
	}{
		{"alice", true, false},
		{"ghost", false, false},
		{"nobody", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := env.users.UsernameExists(ctx, tt.name)
			assertErr(t, err, nil)
			available, err := env.users.UsernameAvailable(ctx, tt.name)
			assertErr(t, err, nil)
			if exists != tt.exists || available != tt.available {
				t.Errorf("exists=%v available=%v, want %v %v", exists, available, tt.exists, tt.available)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.mustUser(t, "alice")
	env.mustUser(t, "ghost")
	if _, err := env.users.DeleteUser(ctx, "ghost", creds("ghost")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		creds domain.Credentials
		want  error
	}{
		{"incomplete", domain.Credentials{Username: "alice"}, domain.ErrBadRequest},
		{"unknown", creds("nobody"), domain.ErrNotFound},
		{"deleted", creds("ghost"), domain.ErrNotFound},
		{"wrong secret", domain.Credentials{Username: "alice", Password: "bad"}, domain.ErrNotAuthorized},
		{"ok", creds("alice"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := env.auth.Authenticate(ctx, tt.creds)
			assertErr(t, err, tt.want)
			if tt.want == nil && u.ID != alice.ID {
				t.Errorf("authenticated as %d, want %d", u.ID, alice.ID)
			}
		})
	}

	if err := env.auth.AuthorizeOwnership(alice, &domain.User{ID: alice.ID + 1}); err == nil {
		t.Error("expected ownership failure")
	}
}
