package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
)

const tweetSelect = `
	SELECT t.id, t.posted, t.content, t.deleted, t.in_reply_to, t.repost_of, ` + userColumns + `
	FROM tweets t
	JOIN users u ON u.id = t.author_id`

const newestFirst = ` ORDER BY t.posted DESC, t.id ASC`

func scanTweet(s scanner) (*domain.Tweet, error) {
	var (
		t         domain.Tweet
		u         domain.User
		posted    int64
		joined    int64
		inReplyTo sql.NullInt64
		repostOf  sql.NullInt64
	)
	err := s.Scan(
		&t.ID, &posted, &t.Content, &t.Deleted, &inReplyTo, &repostOf,
		&u.ID, &u.Username, &u.PasswordHash,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Email, &u.Profile.Phone,
		&joined, &u.Deleted,
	)
	if err != nil {
		return nil, err
	}
	t.Posted = fromNanos(posted)
	u.Joined = fromNanos(joined)
	t.Author = &u
	if inReplyTo.Valid {
		id := inReplyTo.Int64
		t.InReplyToID = &id
	}
	if repostOf.Valid {
		id := repostOf.Int64
		t.RepostOfID = &id
	}
	return &t, nil
}

func (r *SQLiteRepository) queryTweets(ctx context.Context, query string, args ...any) ([]domain.Tweet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, *t)
	}
	return tweets, rows.Err()
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func (r *SQLiteRepository) CreateTweet(ctx context.Context, tweet *domain.Tweet) error {
	if tweet.Author == nil {
		return fmt.Errorf("%w: tweet has no author", domain.ErrBadRequest)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tweets (author_id, posted, content, deleted, in_reply_to, repost_of) VALUES (?, ?, ?, 0, ?, ?)`,
		tweet.Author.ID, tweet.Posted.UnixNano(), tweet.Content,
		nullableID(tweet.InReplyToID), nullableID(tweet.RepostOfID),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	// Concurrent posters may race on a new label; the unique index lets one
	// insert win and everyone re-reads the surviving row.
	for i := range tweet.Hashtags {
		h := &tweet.Hashtags[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hashtags (label, first_used) VALUES (?, ?) ON CONFLICT(label) DO NOTHING`,
			h.Label, tweet.Posted.UnixNano()); err != nil {
			return err
		}
		var firstUsed int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id, first_used FROM hashtags WHERE label = ?`, h.Label).Scan(&h.ID, &firstUsed); err != nil {
			return err
		}
		h.FirstUsed = fromNanos(firstUsed)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tweet_hashtags (tweet_id, hashtag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			id, h.ID); err != nil {
			return err
		}
	}

	for _, m := range tweet.Mentions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tweet_mentions (tweet_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			id, m.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	tweet.ID = id
	return nil
}

func (r *SQLiteRepository) GetTweetByID(ctx context.Context, id int64) (*domain.Tweet, error) {
	row := r.db.QueryRowContext(ctx, tweetSelect+` WHERE t.id = ?`, id)
	t, err := scanTweet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *SQLiteRepository) ListTweets(ctx context.Context) ([]domain.Tweet, error) {
	return r.queryTweets(ctx, tweetSelect+newestFirst)
}

func (r *SQLiteRepository) ListTweetsByAuthors(ctx context.Context, authorIDs []int64) ([]domain.Tweet, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(authorIDs)), ",")
	args := make([]any, len(authorIDs))
	for i, id := range authorIDs {
		args[i] = id
	}
	return r.queryTweets(ctx, tweetSelect+` WHERE t.author_id IN (`+placeholders+`)`+newestFirst, args...)
}

func (r *SQLiteRepository) ListReplies(ctx context.Context, tweetID int64) ([]domain.Tweet, error) {
	return r.queryTweets(ctx, tweetSelect+` WHERE t.in_reply_to = ? ORDER BY t.id ASC`, tweetID)
}

func (r *SQLiteRepository) ListReposts(ctx context.Context, tweetID int64) ([]domain.Tweet, error) {
	return r.queryTweets(ctx, tweetSelect+` WHERE t.repost_of = ?`+newestFirst, tweetID)
}

func (r *SQLiteRepository) ListMentioning(ctx context.Context, userID int64) ([]domain.Tweet, error) {
	return r.queryTweets(ctx, tweetSelect+`
		JOIN tweet_mentions m ON m.tweet_id = t.id
		WHERE m.user_id = ?`+newestFirst, userID)
}

func (r *SQLiteRepository) ListTweetsByHashtag(ctx context.Context, hashtagID int64) ([]domain.Tweet, error) {
	return r.queryTweets(ctx, tweetSelect+`
		JOIN tweet_hashtags th ON th.tweet_id = t.id
		WHERE th.hashtag_id = ?`+newestFirst, hashtagID)
}

func (r *SQLiteRepository) MarkTweetDeleted(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tweets SET deleted = 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: tweet %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) AddLike(ctx context.Context, userID, tweetID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO likes (user_id, tweet_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, tweetID)
	return err
}

func (r *SQLiteRepository) ListLikingUsers(ctx context.Context, tweetID int64) ([]domain.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+userColumns+`
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.tweet_id = ?
		ORDER BY l.rowid`, tweetID)
}

func (r *SQLiteRepository) ListMentionedUsers(ctx context.Context, tweetID int64) ([]domain.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+userColumns+`
		FROM tweet_mentions m
		JOIN users u ON u.id = m.user_id
		WHERE m.tweet_id = ?
		ORDER BY m.rowid`, tweetID)
}

// --- Hashtags ---

func scanHashtag(s scanner) (*domain.Hashtag, error) {
	var h domain.Hashtag
	var firstUsed int64
	if err := s.Scan(&h.ID, &h.Label, &firstUsed); err != nil {
		return nil, err
	}
	h.FirstUsed = fromNanos(firstUsed)
	return &h, nil
}

func (r *SQLiteRepository) queryHashtags(ctx context.Context, query string, args ...any) ([]domain.Hashtag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Hashtag
	for rows.Next() {
		h, err := scanHashtag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *h)
	}
	return tags, rows.Err()
}

func (r *SQLiteRepository) ListTweetHashtags(ctx context.Context, tweetID int64) ([]domain.Hashtag, error) {
	return r.queryHashtags(ctx, `
		SELECT h.id, h.label, h.first_used
		FROM tweet_hashtags th
		JOIN hashtags h ON h.id = th.hashtag_id
		WHERE th.tweet_id = ?
		ORDER BY th.rowid`, tweetID)
}

func (r *SQLiteRepository) GetHashtagByLabel(ctx context.Context, label string) (*domain.Hashtag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, label, first_used FROM hashtags WHERE label = ?`, label)
	h, err := scanHashtag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return h, err
}

func (r *SQLiteRepository) ListHashtags(ctx context.Context) ([]domain.Hashtag, error) {
	return r.queryHashtags(ctx, `SELECT id, label, first_used FROM hashtags ORDER BY first_used, id`)
}
