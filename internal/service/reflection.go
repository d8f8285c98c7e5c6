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

// ReflectionService keeps one journal entry per user and calendar day.
//
// The commit and project counts are a snapshot taken when the entry is
// first created; GetWithCommits reports the live numbers next to it.
type ReflectionService struct {
	reflections repository.ReflectionRepository
	projects    repository.ProjectRepository
	commits     repository.CommitRepository
	loc         *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

func NewReflectionService(
	reflections repository.ReflectionRepository,
	projects repository.ProjectRepository,
	commits repository.CommitRepository,
	loc *time.Location,
	logger *slog.Logger,
) *ReflectionService {
	if loc == nil {
		loc = time.Local
	}
	return &ReflectionService{
		reflections: reflections,
		projects:    projects,
		commits:     commits,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
	}
}

// GetOrCreate returns the user's reflection for date (YYYY-MM-DD, empty
// means today), creating it with a snapshot of the day's activity on
// in-progress projects if it does not exist. An existing entry is returned
// unchanged.
func (s *ReflectionService) GetOrCreate(ctx context.Context, userID, date string) (*model.DailyReflection, error) {
	day, err := s.resolveDay(date, false)
	if err != nil {
		return nil, err
	}
	key := period.FormatDate(day)

	existing, err := s.reflections.GetReflection(ctx, userID, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("loading reflection: %w", err)
	}

	_, commits, err := s.activity(ctx, userID, period.Day(day))
	if err != nil {
		return nil, err
	}

	r := &model.DailyReflection{
		UserID:         userID,
		Date:           key,
		CommitsCount:   len(commits),
		ProjectsWorked: countProjects(commits),
	}
	created, err := s.reflections.CreateReflection(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("creating reflection: %w", err)
	}
	if created {
		s.logger.Info("reflection created",
			slog.String("user_id", userID),
			slog.String("date", key),
			slog.Int("commits", r.CommitsCount),
		)
	}
	return r, nil
}

// Update changes content and/or feeling of an existing reflection. The
// date is required; a missing reflection is not found.
func (s *ReflectionService) Update(ctx context.Context, userID, date string, upd model.ReflectionUpdate) (*model.DailyReflection, error) {
	day, err := s.resolveDay(date, true)
	if err != nil {
		return nil, err
	}

	r, err := s.reflections.UpdateReflection(ctx, userID, period.FormatDate(day), upd)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating reflection: %w", err)
	}
	return r, nil
}

// GetWithCommits returns the reflection for date together with the day's
// commits on in-progress projects, grouped by project. The live totals may
// differ from the reflection's snapshot.
func (s *ReflectionService) GetWithCommits(ctx context.Context, userID, date string) (*model.ReflectionWithCommits, error) {
	r, err := s.GetOrCreate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	day, err := period.ParseDate(r.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("parsing stored reflection date: %w", err)
	}
	projects, commits, err := s.activity(ctx, userID, period.Day(day))
	if err != nil {
		return nil, err
	}

	groups := groupByProject(projects, commits)
	return &model.ReflectionWithCommits{
		Reflection:       r,
		Commits:          commits,
		CommitsByProject: groups,
		TotalCommits:     len(commits),
		TotalProjects:    len(groups),
	}, nil
}

// activity returns the user's in-progress projects and their commits in r.
func (s *ReflectionService) activity(ctx context.Context, userID string, r period.Range) ([]model.Project, []model.Commit, error) {
	projects, err := s.projects.ListProjects(ctx, userID, repository.ProjectFilter{Status: model.StatusInProgress})
	if err != nil {
		return nil, nil, fmt.Errorf("listing in-progress projects: %w", err)
	}
	if len(projects) == 0 {
		return projects, []model.Commit{}, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	commits, err := s.commits.ListCommits(ctx, repository.CommitFilter{ProjectIDs: ids, From: r.Start, To: r.End})
	if err != nil {
		return nil, nil, fmt.Errorf("listing day commits: %w", err)
	}
	return projects, commits, nil
}

func (s *ReflectionService) resolveDay(date string, required bool) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		if required {
			return time.Time{}, apperror.ValidationFailed("date", "date is required")
		}
		return period.StartOfDay(s.now().In(s.loc)), nil
	}
	day, err := period.ParseDate(date, s.loc)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed("date", "date must be YYYY-MM-DD")
	}
	return period.StartOfDay(day), nil
}

// groupByProject keeps project order and drops projects without commits.
func groupByProject(projects []model.Project, commits []model.Commit) []model.ProjectCommits {
	byProject := make(map[string][]model.Commit)
	for _, c := range commits {
		byProject[c.ProjectID] = append(byProject[c.ProjectID], c)
	}

	groups := make([]model.ProjectCommits, 0, len(byProject))
	for _, p := range projects {
		if cs := byProject[p.ID]; len(cs) > 0 {
			groups = append(groups, model.ProjectCommits{Project: p, Commits: cs})
		}
	}
	return groups
}

func countProjects(commits []model.Commit) int {
	seen := make(map[string]struct{})
	for _, c := range commits {
		seen[c.ProjectID] = struct{}{}
	}
	return len(seen)
}
