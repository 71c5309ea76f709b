package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wadjakorntonsri/go-social/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/core/services"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const fixtures = `
users:
  - username: alice
    password: a-secret
    profile:
      email: alice@example.com
      firstName: Alice
  - username: bob
    password: b-secret
    profile:
      email: bob@example.com
follows:
  - follower: alice
    followee: bob
tweets:
  - key: hello
    author: bob
    content: "hello #world @alice"
    likedBy: [alice]
  - author: alice
    replyTo: hello
    content: hi bob
  - author: alice
    repostOf: hello
`

func TestSeed(t *testing.T) {
	repo, err := sqlite.NewSQLiteRepository("file:" + filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	var fx Fixtures
	if err := yaml.Unmarshal([]byte(fixtures), &fx); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	set := services.NewSet(repo, bcrypt.MinCost)
	res, err := seed(ctx, set, &fx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if *res != (seedResult{Users: 2, Follows: 1, Tweets: 3, Likes: 1}) {
		t.Errorf("result = %+v", *res)
	}

	feed, err := set.Timeline.GetFeed(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 3 {
		t.Errorf("alice's feed has %d tweets, want 3", len(feed))
	}
	alice, err := set.Users.GetUser(ctx, "alice")
	if err != nil || alice.Profile.FirstName != "Alice" {
		t.Errorf("alice = %+v, %v", alice, err)
	}

	// users and follows are skipped on a second run; tweets are posted again
	res, err = seed(ctx, set, &fx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if res.Users != 0 || res.Follows != 0 || res.Tweets != 3 {
		t.Errorf("second result = %+v", *res)
	}
}

func TestSeedUnknownReferences(t *testing.T) {
	repo, err := sqlite.NewSQLiteRepository("file:" + filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	set := services.NewSet(repo, bcrypt.MinCost)

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown author", "tweets:\n  - author: ghost\n    content: boo\n", "not defined in fixtures"},
		{"unknown key", "users:\n  - username: a\n    password: p\n    profile: {email: a@x.io}\ntweets:\n  - author: a\n    replyTo: nope\n    content: x\n", "not defined before use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fx Fixtures
			if err := yaml.Unmarshal([]byte(tt.yaml), &fx); err != nil {
				t.Fatal(err)
			}
			_, err := seed(context.Background(), set, &fx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	db := "file:" + filepath.Join(dir, "export.db")
	fixturesPath := filepath.Join(dir, "fixtures.yaml")
	if err := os.WriteFile(fixturesPath, []byte(fixtures), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"seed", "--db", db, "--file", fixturesPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out.String(), "seeded 2 users") {
		t.Errorf("seed output: %q", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"export", "--db", db})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	var dump domain.Dump
	if err := json.Unmarshal(out.Bytes(), &dump); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(dump.Users) != 2 || len(dump.Tweets) != 3 {
		t.Errorf("dump has %d users and %d tweets", len(dump.Users), len(dump.Tweets))
	}

	out.Reset()
	rootCmd.SetArgs([]string{"stats", "--db", db})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatalf("stats is not JSON: %v", err)
	}
	if stats.Users != 2 || stats.Tweets != 3 || stats.Follows != 1 || stats.Likes != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
