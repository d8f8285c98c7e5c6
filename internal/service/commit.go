package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/period"
	"github.com/sakif/devagenda/internal/repository"
)

// CommitService reads synced commits back out, flat, per day or as totals.
type CommitService struct {
	projects repository.ProjectRepository
	commits  repository.CommitRepository
	loc      *time.Location
	logger   *slog.Logger
}

// NewCommitService buckets days in loc; nil means time.Local.
func NewCommitService(projects repository.ProjectRepository, commits repository.CommitRepository, loc *time.Location, logger *slog.Logger) *CommitService {
	if loc == nil {
		loc = time.Local
	}
	return &CommitService{projects: projects, commits: commits, loc: loc, logger: logger}
}

// List returns the project's commits with a timestamp in [from, to], newest
// first. A zero bound is open.
func (s *CommitService) List(ctx context.Context, userID, projectID string, from, to time.Time) ([]model.Commit, error) {
	if _, err := s.projects.GetProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	commits, err := s.commits.ListCommits(ctx, repository.CommitFilter{
		ProjectIDs: []string{projectID},
		From:       from,
		To:         to,
	})
	if err != nil {
		s.logger.Error("failed to list commits",
			slog.String("project_id", projectID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	return commits, nil
}

// ByDay is List grouped into calendar days, newest day first.
func (s *CommitService) ByDay(ctx context.Context, userID, projectID string, from, to time.Time) ([]model.CommitDay, error) {
	commits, err := s.List(ctx, userID, projectID, from, to)
	if err != nil {
		return nil, err
	}
	return GroupByDay(commits, s.loc), nil
}

// Stats summarizes every stored commit of the project.
func (s *CommitService) Stats(ctx context.Context, userID, projectID string) (*model.ProjectStats, error) {
	commits, err := s.List(ctx, userID, projectID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(commits)
	return &stats, nil
}

// GroupByDay buckets commits by their calendar day in loc. Every commit
// lands in exactly one bucket; buckets are ordered newest day first and
// keep the input order of their commits.
func GroupByDay(commits []model.Commit, loc *time.Location) []model.CommitDay {
	index := make(map[string]int)
	days := make([]model.CommitDay, 0)

	for _, c := range commits {
		key := period.DayKey(c.CommitDate, loc)
		i, ok := index[key]
		if !ok {
			day := c.CommitDate.In(loc)
			days = append(days, model.CommitDay{
				Date:        key,
				DisplayDate: day.Format(period.DisplayLayout),
				Commits:     []model.Commit{},
			})
			i = len(days) - 1
			index[key] = i
		}

		d := &days[i]
		d.Commits = append(d.Commits, c)
		d.TotalAdditions += c.Additions
		d.TotalDeletions += c.Deletions
		d.TotalFiles += c.FilesChanged
	}

	// YYYY-MM-DD sorts chronologically as a string.
	sort.SliceStable(days, func(a, b int) bool { return days[a].Date > days[b].Date })
	return days
}

// ComputeStats totals commits and finds the earliest and latest timestamps.
func ComputeStats(commits []model.Commit) model.ProjectStats {
	var stats model.ProjectStats
	for _, c := range commits {
		stats.TotalCommits++
		stats.TotalAdditions += c.Additions
		stats.TotalDeletions += c.Deletions
		stats.TotalFiles += c.FilesChanged

		d := c.CommitDate
		if stats.FirstCommit == nil || d.Before(*stats.FirstCommit) {
			stats.FirstCommit = &d
		}
		if stats.LastCommit == nil || d.After(*stats.LastCommit) {
			stats.LastCommit = &d
		}
	}
	return stats
}
