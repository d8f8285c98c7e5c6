package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, github_username, github_token, name, email, avatar_url, created_at, updated_at`

// GetOrCreateUser inserts a blank profile for id unless one exists, then
// reads the row back. INSERT ... ON CONFLICT DO NOTHING makes the insert
// idempotent, so racing first requests converge on one row.
func (db *DB) GetOrCreateUser(ctx context.Context, id string) (*model.User, error) {
	ts := formatTime(now())
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: creating user %s: %w", id, err)
	}
	return db.GetUserByID(ctx, id)
}

// GetUserByID returns apperror.ErrNotFound when no user has that id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// LinkGitHub stores the GitHub identity and sealed token on the user.
func (db *DB) LinkGitHub(ctx context.Context, user *model.User) error {
	user.UpdatedAt = now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET github_username = ?, github_token = ?, name = ?, email = ?, avatar_url = ?, updated_at = ?
		 WHERE id = ?`,
		user.GitHubUsername,
		user.GitHubToken,
		user.Name,
		user.Email,
		user.AvatarURL,
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: linking github for user %s: %w", user.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

func scanUser(s scanner) (*model.User, error) {
	var (
		u                    model.User
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&u.ID,
		&u.GitHubUsername,
		&u.GitHubToken,
		&u.Name,
		&u.Email,
		&u.AvatarURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
