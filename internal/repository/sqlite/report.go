package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

var _ repository.ReportRepository = (*DB)(nil)

const reportColumns = `id, user_id, project_id, report_type, start_date, end_date,
	total_commits, total_additions, total_deletions, projects_count, content, created_at`

// CreateReport stores the report with its content encoded as JSON text.
func (db *DB) CreateReport(ctx context.Context, r *model.Report) error {
	content, err := json.Marshal(r.Content)
	if err != nil {
		return fmt.Errorf("sqlite: encoding report content: %w", err)
	}

	r.ID = xid.New().String()
	r.CreatedAt = now()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.UserID,
		r.ProjectID,
		string(r.Type),
		r.StartDate,
		r.EndDate,
		r.TotalCommits,
		r.TotalAdditions,
		r.TotalDeletions,
		r.ProjectsCount,
		string(content),
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating report: %w", err)
	}
	return nil
}

// ListReports orders by creation time descending; reports created within
// the same instant fall back to id order, which xid keeps chronological.
func (db *DB) ListReports(ctx context.Context, userID string, filter repository.ReportFilter) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = ?`
	args := []any{userID}
	if filter.Type != "" {
		query += ` AND report_type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reports: %w", err)
	}
	defer rows.Close()

	reports := make([]model.Report, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning report row: %w", err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reports: %w", err)
	}
	return reports, nil
}

func (db *DB) GetReport(ctx context.Context, userID, id string) (*model.Report, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("report", id)
		}
		return nil, fmt.Errorf("sqlite: getting report %s: %w", id, err)
	}
	return r, nil
}

func scanReport(s scanner) (*model.Report, error) {
	var (
		r                  model.Report
		reportType         string
		content, createdAt string
	)
	if err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.ProjectID,
		&reportType,
		&r.StartDate,
		&r.EndDate,
		&r.TotalCommits,
		&r.TotalAdditions,
		&r.TotalDeletions,
		&r.ProjectsCount,
		&content,
		&createdAt,
	); err != nil {
		return nil, err
	}
	r.Type = model.ReportType(reportType)

	if err := json.Unmarshal([]byte(content), &r.Content); err != nil {
		return nil, fmt.Errorf("decoding report content: %w", err)
	}
	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}
