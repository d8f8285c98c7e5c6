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

var _ repository.ProjectRepository = (*DB)(nil)

const projectColumns = `id, user_id, name, description, status, github_owner, github_repo, created_at, updated_at`

// CreateProject assigns the ID and timestamps and inserts the project.
//
// xid ids are 20 URL-safe characters and sort by creation time.
func (db *DB) CreateProject(ctx context.Context, p *model.Project) error {
	p.ID = xid.New().String()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.Name,
		p.Description,
		string(p.Status),
		p.GitHubOwner,
		p.GitHubRepo,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project: %w", err)
	}
	return nil
}

// GetProject scopes the lookup to the owner: another user's project is
// reported as not found.
func (db *DB) GetProject(ctx context.Context, userID, id string) (*model.Project, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return p, nil
}

func (db *DB) ListProjects(ctx context.Context, userID string, filter repository.ProjectFilter) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ?`
	args := []any{userID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}
	return projects, nil
}

// UpdateProject writes every mutable column. ID, UserID and CreatedAt are
// immutable.
func (db *DB) UpdateProject(ctx context.Context, p *model.Project) error {
	p.UpdatedAt = now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE projects
		 SET name = ?, description = ?, status = ?, github_owner = ?, github_repo = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		p.Name,
		p.Description,
		string(p.Status),
		p.GitHubOwner,
		p.GitHubRepo,
		formatTime(p.UpdatedAt),
		p.ID,
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", p.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("project", p.ID)
	}
	return nil
}

// DeleteProject removes the project; ON DELETE CASCADE removes its commits.
func (db *DB) DeleteProject(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("project", id)
	}
	return nil
}

func scanProject(s scanner) (*model.Project, error) {
	var (
		p                    model.Project
		status               string
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&status,
		&p.GitHubOwner,
		&p.GitHubRepo,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	p.Status = model.ProjectStatus(status)

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
