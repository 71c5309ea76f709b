package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/wadjakorntonsri/go-social/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-social/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-social/pkg/config"
	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/core/services"
	"golang.org/x/crypto/bcrypt"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (c *client) call(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode
}

func creds(name string) domain.Credentials {
	return domain.Credentials{Username: name, Password: name + "-secret"}
}

func ids(tweets []domain.Tweet) []int64 {
	out := make([]int64, len(tweets))
	for i, tw := range tweets {
		out[i] = tw.ID
	}
	return out
}

func TestIntegration(t *testing.T) {
	// 1. Setup DB
	repo, err := sqlite.NewSQLiteRepository("file:" + filepath.Join(t.TempDir(), "e2e.db"))
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	defer repo.Close()

	// 2. Setup Services and Router
	cfg := &config.Config{JWTSecret: "e2e", RateLimitRPS: 1000, RateLimitBurst: 1000}
	mux := handler.NewRouter(cfg, handler.FromSet(services.NewSet(repo, bcrypt.MinCost)))

	server := httptest.NewServer(mux)
	defer server.Close()
	c := &client{t: t, base: server.URL, http: server.Client()}

	// TEST 1: Register
	for _, name := range []string{"u", "v", "w"} {
		req := handler.CreateUserRequest{Credentials: creds(name), Profile: domain.Profile{Email: name + "@example.com"}}
		if code := c.call("POST", "/api/v1/users", req, nil); code != http.StatusCreated {
			t.Fatalf("register %s: %d", name, code)
		}
	}

	// TEST 2: Follow
	for _, followee := range []string{"v", "w"} {
		if code := c.call("POST", "/api/v1/users/@"+followee+"/follow", creds("u"), nil); code != http.StatusNoContent {
			t.Fatalf("follow %s: %d", followee, code)
		}
	}
	if code := c.call("POST", "/api/v1/users/@v/follow", creds("u"), nil); code != http.StatusConflict {
		t.Errorf("second follow expected 409, got %d", code)
	}

	// TEST 3: Post, reply chain
	post := func(author, text string) domain.Tweet {
		var tw domain.Tweet
		if code := c.call("POST", "/api/v1/tweets", handler.TweetRequest{Content: text, Credentials: creds(author)}, &tw); code != http.StatusCreated {
			t.Fatalf("post by %s: %d", author, code)
		}
		return tw
	}
	reply := func(author string, parent int64, text string) domain.Tweet {
		var tw domain.Tweet
		path := fmt.Sprintf("/api/v1/tweets/%d/reply", parent)
		if code := c.call("POST", path, handler.TweetRequest{Content: text, Credentials: creds(author)}, &tw); code != http.StatusCreated {
			t.Fatalf("reply by %s: %d", author, code)
		}
		return tw
	}

	a := post("u", "thread start #news")
	b := reply("v", a.ID, "middle #news")
	cc := reply("u", b.ID, "end")
	wt := post("w", "from w")

	// TEST 4: Hashtag created once
	var tags []domain.Hashtag
	if code := c.call("GET", "/api/v1/tags", nil, &tags); code != http.StatusOK || len(tags) != 1 || tags[0].Label != "news" {
		t.Errorf("tags = %+v (code %d)", tags, code)
	}

	// TEST 5: Delete middle and check context
	if code := c.call("DELETE", fmt.Sprintf("/api/v1/tweets/%d", b.ID), creds("v"), nil); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code := c.call("DELETE", fmt.Sprintf("/api/v1/tweets/%d", b.ID), creds("v"), nil); code != http.StatusNotFound {
		t.Errorf("second delete expected 404, got %d", code)
	}

	var ctxC domain.Context
	c.call("GET", fmt.Sprintf("/api/v1/tweets/%d/context", cc.ID), nil, &ctxC)
	if got := ids(ctxC.Before); len(got) != 2 || got[0] != b.ID || got[1] != a.ID {
		t.Errorf("before = %v, want [%d %d]", got, b.ID, a.ID)
	}
	var ctxA domain.Context
	c.call("GET", fmt.Sprintf("/api/v1/tweets/%d/context", a.ID), nil, &ctxA)
	if len(ctxA.After) != 0 {
		t.Errorf("after = %v, want []", ids(ctxA.After))
	}

	// TEST 6: Feed drops deleted users
	if code := c.call("DELETE", "/api/v1/users/@w", creds("w"), nil); code != http.StatusOK {
		t.Fatalf("delete user: %d", code)
	}
	var feed []domain.Tweet
	c.call("GET", "/api/v1/users/@u/feed", nil, &feed)
	for _, tw := range feed {
		if tw.ID == wt.ID || tw.ID == b.ID {
			t.Errorf("feed contains hidden tweet %d", tw.ID)
		}
	}
	if got := ids(feed); len(got) != 2 || got[0] != cc.ID || got[1] != a.ID {
		t.Errorf("feed = %v, want [%d %d]", got, cc.ID, a.ID)
	}

	// TEST 7: Reactivation restores w's tweets
	req := handler.CreateUserRequest{Credentials: creds("w"), Profile: domain.Profile{Email: "w@example.com"}}
	if code := c.call("POST", "/api/v1/users", req, nil); code != http.StatusCreated {
		t.Fatalf("reactivate: %d", code)
	}
	var wTweets []domain.Tweet
	c.call("GET", "/api/v1/users/@w/tweets", nil, &wTweets)
	if got := ids(wTweets); len(got) != 1 || got[0] != wt.ID {
		t.Errorf("w tweets = %v, want [%d]", got, wt.ID)
	}

	// TEST 8: Export (Dump)
	dump, err := repo.Dump(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(dump.Users) != 3 || len(dump.Tweets) != 4 {
		t.Errorf("Expected 3 users and 4 tweets in dump, got %d and %d", len(dump.Users), len(dump.Tweets))
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{
		Port:        "0",
		DatabaseURL: "file:" + filepath.Join(t.TempDir(), "run.db"),
		BcryptCost:  bcrypt.MinCost,
		JWTSecret:   "x",
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}
