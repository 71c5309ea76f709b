package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if driverName == "sqlite" {
		// One connection: writers are serialized and ":memory:" stays a
		// single database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if driverName == "sqlite" {
		for _, pragma := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`} {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, err
			}
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		joined INTEGER NOT NULL,
		deleted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS follows (
		follower_id INTEGER NOT NULL,
		followee_id INTEGER NOT NULL,
		PRIMARY KEY (follower_id, followee_id),
		FOREIGN KEY(follower_id) REFERENCES users(id),
		FOREIGN KEY(followee_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id);

	CREATE TABLE IF NOT EXISTS tweets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER NOT NULL,
		posted INTEGER NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		deleted INTEGER NOT NULL DEFAULT 0,
		in_reply_to INTEGER,
		repost_of INTEGER,
		FOREIGN KEY(author_id) REFERENCES users(id),
		FOREIGN KEY(in_reply_to) REFERENCES tweets(id),
		FOREIGN KEY(repost_of) REFERENCES tweets(id)
	);
	CREATE INDEX IF NOT EXISTS idx_tweets_author ON tweets(author_id);
	CREATE INDEX IF NOT EXISTS idx_tweets_posted ON tweets(posted);
	CREATE INDEX IF NOT EXISTS idx_tweets_in_reply_to ON tweets(in_reply_to);
	CREATE INDEX IF NOT EXISTS idx_tweets_repost_of ON tweets(repost_of);

	CREATE TABLE IF NOT EXISTS hashtags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL UNIQUE,
		first_used INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tweet_hashtags (
		tweet_id INTEGER NOT NULL,
		hashtag_id INTEGER NOT NULL,
		PRIMARY KEY (tweet_id, hashtag_id),
		FOREIGN KEY(tweet_id) REFERENCES tweets(id),
		FOREIGN KEY(hashtag_id) REFERENCES hashtags(id)
	);
	CREATE INDEX IF NOT EXISTS idx_tweet_hashtags_hashtag ON tweet_hashtags(hashtag_id);

	CREATE TABLE IF NOT EXISTS tweet_mentions (
		tweet_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		PRIMARY KEY (tweet_id, user_id),
		FOREIGN KEY(tweet_id) REFERENCES tweets(id),
		FOREIGN KEY(user_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_tweet_mentions_user ON tweet_mentions(user_id);

	CREATE TABLE IF NOT EXISTS likes (
		user_id INTEGER NOT NULL,
		tweet_id INTEGER NOT NULL,
		PRIMARY KEY (user_id, tweet_id),
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(tweet_id) REFERENCES tweets(id)
	);
	CREATE INDEX IF NOT EXISTS idx_likes_tweet ON likes(tweet_id);
	`
	_, err := db.Exec(query)
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func (r *SQLiteRepository) Dump(ctx context.Context) (*domain.Dump, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	tweets, err := r.ListTweets(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Dump{Users: users, Tweets: tweets}, nil
}

func (r *SQLiteRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	var s domain.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE deleted = 0),
			(SELECT COUNT(*) FROM tweets),
			(SELECT COUNT(*) FROM tweets WHERE deleted = 1),
			(SELECT COUNT(*) FROM hashtags),
			(SELECT COUNT(*) FROM follows),
			(SELECT COUNT(*) FROM likes)`).Scan(
		&s.Users, &s.ActiveUsers, &s.Tweets, &s.DeletedTweets, &s.Hashtags, &s.Follows, &s.Likes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Ensure interface compliance
var _ ports.Store = (*SQLiteRepository)(nil)
