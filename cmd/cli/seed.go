package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/core/services"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML layout accepted by `seed`
type Fixtures struct {
	Users []struct {
		Username string         `yaml:"username"`
		Password string         `yaml:"password"`
		Profile  domain.Profile `yaml:"profile"`
	} `yaml:"users"`
	Follows []struct {
		Follower string `yaml:"follower"`
		Followee string `yaml:"followee"`
	} `yaml:"follows"`
	Tweets []struct {
		Key      string   `yaml:"key"` // optional, referenced by replyTo/repostOf
		Author   string   `yaml:"author"`
		Content  string   `yaml:"content"`
		ReplyTo  string   `yaml:"replyTo"`
		RepostOf string   `yaml:"repostOf"`
		LikedBy  []string `yaml:"likedBy"`
	} `yaml:"tweets"`
}

type seedResult struct {
	Users   int
	Follows int
	Tweets  int
	Likes   int
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "YAML fixtures file")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create users, follows and tweets from a YAML fixtures file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var fx Fixtures
		if err := yaml.Unmarshal(data, &fx); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		repo, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		res, err := seed(cmd.Context(), services.NewSet(repo, cfg.BcryptCost), &fx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d follows, %d tweets, %d likes\n",
			res.Users, res.Follows, res.Tweets, res.Likes)
		return nil
	},
}

// seed applies fixtures through the services. Existing users and follow
// edges are skipped so a file can be applied more than once.
func seed(ctx context.Context, set *services.Set, fx *Fixtures) (*seedResult, error) {
	res := &seedResult{}
	secrets := make(map[string]string, len(fx.Users))
	credsFor := func(name string) (domain.Credentials, error) {
		pw, ok := secrets[name]
		if !ok {
			return domain.Credentials{}, fmt.Errorf("user %q is not defined in fixtures", name)
		}
		return domain.Credentials{Username: name, Password: pw}, nil
	}

	for _, u := range fx.Users {
		secrets[u.Username] = u.Password
		_, err := set.Users.CreateUser(ctx, domain.Credentials{Username: u.Username, Password: u.Password}, u.Profile)
		if errors.Is(err, domain.ErrConflict) {
			logger.Debug("seed_user_exists", "username", u.Username)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		res.Users++
	}

	for _, f := range fx.Follows {
		creds, err := credsFor(f.Follower)
		if err != nil {
			return nil, err
		}
		err = set.Social.Follow(ctx, creds, f.Followee)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("follow %s -> %s: %w", f.Follower, f.Followee, err)
		}
		res.Follows++
	}

	keys := make(map[string]int64)
	lookup := func(key string) (int64, error) {
		id, ok := keys[key]
		if !ok {
			return 0, fmt.Errorf("tweet key %q not defined before use", key)
		}
		return id, nil
	}
	for i, t := range fx.Tweets {
		creds, err := credsFor(t.Author)
		if err != nil {
			return nil, err
		}

		var tweet *domain.Tweet
		switch {
		case t.ReplyTo != "":
			parent, lerr := lookup(t.ReplyTo)
			if lerr != nil {
				return nil, lerr
			}
			tweet, err = set.Tweets.CreateReply(ctx, parent, t.Content, creds)
		case t.RepostOf != "":
			source, lerr := lookup(t.RepostOf)
			if lerr != nil {
				return nil, lerr
			}
			tweet, err = set.Tweets.CreateRepost(ctx, source, creds)
		default:
			tweet, err = set.Tweets.PostTweet(ctx, t.Content, creds)
		}
		if err != nil {
			return nil, fmt.Errorf("tweet #%d by %s: %w", i+1, t.Author, err)
		}
		res.Tweets++
		if t.Key != "" {
			keys[t.Key] = tweet.ID
		}

		for _, liker := range t.LikedBy {
			lc, err := credsFor(liker)
			if err != nil {
				return nil, err
			}
			if err := set.Tweets.LikeTweet(ctx, tweet.ID, lc); err != nil {
				return nil, fmt.Errorf("like by %s: %w", liker, err)
			}
			res.Likes++
		}
	}
	return res, nil
}
