package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/period"
	"github.com/sakif/devagenda/internal/repository"
)

// ReportService generates and retrieves weekly and monthly reports.
// Every generation persists a new row; earlier reports for the same period
// are kept as history.
type ReportService struct {
	projects repository.ProjectRepository
	commits  repository.CommitRepository
	reports  repository.ReportRepository
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewReportService(
	projects repository.ProjectRepository,
	commits repository.CommitRepository,
	reports repository.ReportRepository,
	loc *time.Location,
	logger *slog.Logger,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		projects: projects,
		commits:  commits,
		reports:  reports,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// Now is the service clock in its configured location. Handlers use it to
// default a missing reference date.
func (s *ReportService) Now() time.Time {
	return s.now().In(s.loc)
}

// Location is where calendar days are resolved.
func (s *ReportService) Location() *time.Location {
	return s.loc
}

// GenerateWeekly reports on the Monday–Sunday week containing ref. A zero
// ref means now. An empty projectID covers all of the user's projects.
func (s *ReportService) GenerateWeekly(ctx context.Context, userID, projectID string, ref time.Time) (*model.Report, error) {
	return s.Generate(ctx, userID, projectID, model.ReportWeekly, period.Week(s.ref(ref)))
}

// GenerateMonthly reports on the calendar month containing ref.
func (s *ReportService) GenerateMonthly(ctx context.Context, userID, projectID string, ref time.Time) (*model.Report, error) {
	return s.Generate(ctx, userID, projectID, model.ReportMonthly, period.Month(s.ref(ref)))
}

func (s *ReportService) ref(t time.Time) time.Time {
	if t.IsZero() {
		return s.Now()
	}
	return t.In(s.loc)
}

// Generate builds the report of typ over r and persists it. A scope with
// no projects still yields a persisted report with zero totals.
func (s *ReportService) Generate(ctx context.Context, userID, projectID string, typ model.ReportType, r period.Range) (*model.Report, error) {
	if !typ.Valid() {
		return nil, apperror.ValidationFailed("type", "report type must be weekly or monthly")
	}

	projects, err := s.scope(ctx, userID, strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}

	commits := []model.Commit{}
	if len(projects) > 0 {
		ids := make([]string, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		commits, err = s.commits.ListCommits(ctx, repository.CommitFilter{ProjectIDs: ids, From: r.Start, To: r.End})
		if err != nil {
			return nil, fmt.Errorf("listing report commits: %w", err)
		}
	}

	stats := BuildStatistics(projects, commits)
	report := &model.Report{
		UserID:         userID,
		ProjectID:      strings.TrimSpace(projectID),
		Type:           typ,
		StartDate:      period.FormatDate(r.Start),
		EndDate:        period.FormatDate(r.End),
		TotalCommits:   stats.TotalCommits,
		TotalAdditions: stats.TotalAdditions,
		TotalDeletions: stats.TotalDeletions,
		ProjectsCount:  stats.ProjectsCount,
		Content: model.ReportContent{
			Period: model.ReportPeriod{
				Start:          period.FormatDate(r.Start),
				End:            period.FormatDate(r.End),
				StartFormatted: period.FormatLong(r.Start),
				EndFormatted:   period.FormatLong(r.End),
			},
			Statistics:  stats,
			GeneratedAt: s.now().UTC(),
		},
	}

	if err := s.reports.CreateReport(ctx, report); err != nil {
		s.logger.Error("failed to store report",
			slog.String("user_id", userID),
			slog.String("type", string(typ)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing report: %w", err)
	}

	s.logger.Info("report generated",
		slog.String("id", report.ID),
		slog.String("type", string(typ)),
		slog.String("start", report.StartDate),
		slog.Int("commits", report.TotalCommits),
	)
	return report, nil
}

// scope resolves the projects a report covers: the one named, or all.
// A projectID the user does not own resolves to no projects.
func (s *ReportService) scope(ctx context.Context, userID, projectID string) ([]model.Project, error) {
	if projectID != "" {
		p, err := s.projects.GetProject(ctx, userID, projectID)
		if errors.Is(err, apperror.ErrNotFound) {
			// an unknown or foreign project is an empty scope, not an error
			return []model.Project{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("loading report project: %w", err)
		}
		return []model.Project{*p}, nil
	}

	projects, err := s.projects.ListProjects(ctx, userID, repository.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing report projects: %w", err)
	}
	return projects, nil
}

// BuildStatistics totals commits overall and per project. Projects keep the
// given order; each lists its commits with the abbreviated hash.
func BuildStatistics(projects []model.Project, commits []model.Commit) model.ReportStatistics {
	byProject := make(map[string][]model.Commit, len(projects))
	for _, c := range commits {
		byProject[c.ProjectID] = append(byProject[c.ProjectID], c)
	}

	stats := model.ReportStatistics{
		ProjectsCount: len(projects),
		Projects:      make([]model.ProjectStatistics, 0, len(projects)),
	}
	for _, p := range projects {
		ps := model.ProjectStatistics{
			ID:          p.ID,
			Name:        p.Name,
			Status:      p.Status,
			CommitsList: make([]model.ReportCommit, 0, len(byProject[p.ID])),
		}
		for _, c := range byProject[p.ID] {
			ps.Commits++
			ps.Additions += c.Additions
			ps.Deletions += c.Deletions
			ps.CommitsList = append(ps.CommitsList, model.ReportCommit{
				SHA:       c.ShortSHA(),
				Message:   c.Message,
				Date:      c.CommitDate,
				Additions: c.Additions,
				Deletions: c.Deletions,
			})
		}

		stats.TotalCommits += ps.Commits
		stats.TotalAdditions += ps.Additions
		stats.TotalDeletions += ps.Deletions
		stats.Projects = append(stats.Projects, ps)
	}
	return stats
}

// List returns the user's reports, newest first.
func (s *ReportService) List(ctx context.Context, userID string, typ model.ReportType, projectID string) ([]model.Report, error) {
	if typ != "" && !typ.Valid() {
		return nil, apperror.ValidationFailed("type", "report type must be weekly or monthly")
	}
	reports, err := s.reports.ListReports(ctx, userID, repository.ReportFilter{Type: typ, ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) Get(ctx context.Context, userID, id string) (*model.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "report id is required")
	}
	return s.reports.GetReport(ctx, userID, id)
}
