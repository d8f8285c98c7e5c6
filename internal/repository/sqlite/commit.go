package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

var _ repository.CommitRepository = (*DB)(nil)

const commitColumns = `id, project_id, sha, message, author_name, author_email, commit_date, url,
	additions, deletions, files_changed, created_at, updated_at`

// UpsertCommits writes all commits in one transaction. A commit whose
// (project_id, sha) already exists keeps its id and created_at; every other
// column is refreshed. Either every row is written or none is.
func (db *DB) UpsertCommits(ctx context.Context, commits []model.Commit) (int, error) {
	if len(commits) == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: beginning commit upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO commits (`+commitColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project_id, sha) DO UPDATE SET
			message       = excluded.message,
			author_name   = excluded.author_name,
			author_email  = excluded.author_email,
			commit_date   = excluded.commit_date,
			url           = excluded.url,
			additions     = excluded.additions,
			deletions     = excluded.deletions,
			files_changed = excluded.files_changed,
			updated_at    = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: preparing commit upsert: %w", err)
	}
	defer stmt.Close()

	ts := formatTime(now())
	for _, c := range commits {
		if _, err := stmt.ExecContext(ctx,
			xid.New().String(),
			c.ProjectID,
			c.SHA,
			c.Message,
			c.AuthorName,
			c.AuthorEmail,
			formatTime(c.CommitDate),
			c.URL,
			c.Additions,
			c.Deletions,
			c.FilesChanged,
			ts,
			ts,
		); err != nil {
			return 0, fmt.Errorf("sqlite: upserting commit %s: %w", c.SHA, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: committing commit upsert: %w", err)
	}
	return len(commits), nil
}

// ListCommits returns commits of the given projects inside [From, To],
// newest first.
func (db *DB) ListCommits(ctx context.Context, filter repository.CommitFilter) ([]model.Commit, error) {
	commits := make([]model.Commit, 0)
	if len(filter.ProjectIDs) == 0 {
		return commits, nil
	}

	var (
		where []string
		args  []any
	)
	where = append(where, `project_id IN (?`+strings.Repeat(`, ?`, len(filter.ProjectIDs)-1)+`)`)
	for _, id := range filter.ProjectIDs {
		args = append(args, id)
	}
	if !filter.From.IsZero() {
		where = append(where, `commit_date >= ?`)
		args = append(args, formatTime(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, `commit_date <= ?`)
		args = append(args, formatTime(filter.To))
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+commitColumns+` FROM commits
		 WHERE `+strings.Join(where, ` AND `)+`
		 ORDER BY commit_date DESC, sha`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing commits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCommit(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning commit row: %w", err)
		}
		commits = append(commits, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating commits: %w", err)
	}
	return commits, nil
}

func scanCommit(s scanner) (*model.Commit, error) {
	var (
		c                                model.Commit
		commitDate, createdAt, updatedAt string
	)
	if err := s.Scan(
		&c.ID,
		&c.ProjectID,
		&c.SHA,
		&c.Message,
		&c.AuthorName,
		&c.AuthorEmail,
		&commitDate,
		&c.URL,
		&c.Additions,
		&c.Deletions,
		&c.FilesChanged,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if c.CommitDate, err = parseTime(commitDate); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
