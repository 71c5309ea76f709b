package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
)

const userColumns = `u.id, u.username, u.password_hash, u.first_name, u.last_name, u.email, u.phone, u.joined, u.deleted`

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var joined int64
	err := s.Scan(
		&u.ID, &u.Username, &u.PasswordHash,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Email, &u.Profile.Phone,
		&joined, &u.Deleted,
	)
	if err != nil {
		return nil, err
	}
	u.Joined = fromNanos(joined)
	return &u, nil
}

func (r *SQLiteRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, password_hash, first_name, last_name, email, phone, joined, deleted)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(username) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash,
		user.Profile.FirstName, user.Profile.LastName, user.Profile.Email, user.Profile.Phone,
		user.Joined.UnixNano(), user.Deleted,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: username %q is taken", domain.ErrConflict, user.Username)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id`)
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET password_hash = ?, first_name = ?, last_name = ?, email = ?, phone = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		user.PasswordHash,
		user.Profile.FirstName, user.Profile.LastName, user.Profile.Email, user.Profile.Phone,
		user.ID,
	)
	return err
}

func (r *SQLiteRepository) SetUserDeleted(ctx context.Context, id int64, deleted bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET deleted = ? WHERE id = ? AND deleted = ?`, deleted, id, !deleted)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return nil
}

// --- Follow edges ---

func (r *SQLiteRepository) AddFollow(ctx context.Context, followerID, followeeID int64) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: already following", domain.ErrConflict)
	}
	return nil
}

func (r *SQLiteRepository) RemoveFollow(ctx context.Context, followerID, followeeID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: not following", domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteRepository) ListFollowers(ctx context.Context, userID int64) ([]domain.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+userColumns+`
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = ?
		ORDER BY u.id`, userID)
}

func (r *SQLiteRepository) ListFollowing(ctx context.Context, userID int64) ([]domain.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+userColumns+`
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = ?
		ORDER BY u.id`, userID)
}
