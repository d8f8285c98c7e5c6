package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

var _ repository.ReflectionRepository = (*DB)(nil)

const reflectionColumns = `id, user_id, reflection_date, commits_count, projects_worked, content, feeling, created_at, updated_at`

func (db *DB) GetReflection(ctx context.Context, userID, date string) (*model.DailyReflection, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+reflectionColumns+` FROM daily_reflections
		 WHERE user_id = ? AND reflection_date = ?`,
		userID, date,
	)

	r, err := scanReflection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("reflection", date)
		}
		return nil, fmt.Errorf("sqlite: getting reflection %s: %w", date, err)
	}
	return r, nil
}

// CreateReflection relies on UNIQUE(user_id, reflection_date): when a
// concurrent request already created the day's row, nothing is inserted
// and the winner's row is loaded into r.
func (db *DB) CreateReflection(ctx context.Context, r *model.DailyReflection) (bool, error) {
	r.ID = xid.New().String()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO daily_reflections (`+reflectionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, reflection_date) DO NOTHING`,
		r.ID,
		r.UserID,
		r.Date,
		r.CommitsCount,
		r.ProjectsWorked,
		r.Content,
		r.Feeling,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: creating reflection %s: %w", r.Date, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	existing, err := db.GetReflection(ctx, r.UserID, r.Date)
	if err != nil {
		return false, err
	}
	*r = *existing
	return false, nil
}

// UpdateReflection changes only the non-nil fields of upd.
func (db *DB) UpdateReflection(ctx context.Context, userID, date string, upd model.ReflectionUpdate) (*model.DailyReflection, error) {
	set := `updated_at = ?`
	args := []any{formatTime(now())}
	if upd.Content != nil {
		set += `, content = ?`
		args = append(args, *upd.Content)
	}
	if upd.Feeling != nil {
		set += `, feeling = ?`
		args = append(args, *upd.Feeling)
	}
	args = append(args, userID, date)

	result, err := db.conn.ExecContext(ctx,
		`UPDATE daily_reflections SET `+set+` WHERE user_id = ? AND reflection_date = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating reflection %s: %w", date, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, apperror.NotFound("reflection", date)
	}
	return db.GetReflection(ctx, userID, date)
}

func scanReflection(s scanner) (*model.DailyReflection, error) {
	var (
		r                    model.DailyReflection
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.Date,
		&r.CommitsCount,
		&r.ProjectsWorked,
		&r.Content,
		&r.Feeling,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
