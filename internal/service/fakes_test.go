package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/github"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStore is an in-memory implementation of every repository interface.
// Set an *Err field to simulate a database failure.
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]model.User
	projects    map[string]model.Project
	commits     map[string]model.Commit // keyed by projectID + "/" + sha
	reflections map[string]model.DailyReflection
	reports     []model.Report
	nextID      int

	upsertErr       error
	upsertCalls     int
	createReportErr error
	listCommitsErr  error
}

var (
	_ repository.UserRepository       = (*fakeStore)(nil)
	_ repository.ProjectRepository    = (*fakeStore)(nil)
	_ repository.CommitRepository     = (*fakeStore)(nil)
	_ repository.ReflectionRepository = (*fakeStore)(nil)
	_ repository.ReportRepository     = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]model.User),
		projects:    make(map[string]model.Project),
		commits:     make(map[string]model.Commit),
		reflections: make(map[string]model.DailyReflection),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		u = model.User{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		f.users[id] = u
	}
	return &u, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (f *fakeStore) LinkGitHub(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) CreateProject(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id("project")
	p.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	f.projects[p.ID] = *p
	return nil
}

func (f *fakeStore) GetProject(_ context.Context, userID, id string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return nil, apperror.NotFound("project", id)
	}
	return &p, nil
}

func (f *fakeStore) ListProjects(_ context.Context, userID string, filter repository.ProjectFilter) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Project{}
	for _, p := range f.projects {
		if p.UserID == userID && (filter.Status == "" || p.Status == filter.Status) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateProject(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.projects[p.ID]
	if !ok || old.UserID != p.UserID {
		return apperror.NotFound("project", p.ID)
	}
	f.projects[p.ID] = *p
	return nil
}

func (f *fakeStore) DeleteProject(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return apperror.NotFound("project", id)
	}
	delete(f.projects, id)
	for k, c := range f.commits {
		if c.ProjectID == id {
			delete(f.commits, k)
		}
	}
	return nil
}

func (f *fakeStore) UpsertCommits(_ context.Context, commits []model.Commit) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	for _, c := range commits {
		key := c.ProjectID + "/" + c.SHA
		if old, ok := f.commits[key]; ok {
			c.ID = old.ID
		} else {
			c.ID = f.id("commit")
		}
		f.commits[key] = c
	}
	return len(commits), nil
}

func (f *fakeStore) ListCommits(_ context.Context, filter repository.CommitFilter) ([]model.Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listCommitsErr != nil {
		return nil, f.listCommitsErr
	}
	wanted := make(map[string]bool)
	for _, id := range filter.ProjectIDs {
		wanted[id] = true
	}
	out := []model.Commit{}
	for _, c := range f.commits {
		if !wanted[c.ProjectID] {
			continue
		}
		if !filter.From.IsZero() && c.CommitDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && c.CommitDate.After(filter.To) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommitDate.After(out[j].CommitDate) })
	return out, nil
}

func (f *fakeStore) GetReflection(_ context.Context, userID, date string) (*model.DailyReflection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reflections[userID+"/"+date]
	if !ok {
		return nil, apperror.NotFound("reflection", date)
	}
	return &r, nil
}

func (f *fakeStore) CreateReflection(_ context.Context, r *model.DailyReflection) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := r.UserID + "/" + r.Date
	if existing, ok := f.reflections[key]; ok {
		*r = existing
		return false, nil
	}
	r.ID = f.id("reflection")
	f.reflections[key] = *r
	return true, nil
}

func (f *fakeStore) UpdateReflection(_ context.Context, userID, date string, upd model.ReflectionUpdate) (*model.DailyReflection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "/" + date
	r, ok := f.reflections[key]
	if !ok {
		return nil, apperror.NotFound("reflection", date)
	}
	if upd.Content != nil {
		r.Content = *upd.Content
	}
	if upd.Feeling != nil {
		r.Feeling = *upd.Feeling
	}
	f.reflections[key] = r
	return &r, nil
}

func (f *fakeStore) CreateReport(_ context.Context, r *model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createReportErr != nil {
		return f.createReportErr
	}
	r.ID = f.id("report")
	r.CreatedAt = time.Now()
	f.reports = append(f.reports, *r)
	return nil
}

func (f *fakeStore) ListReports(_ context.Context, userID string, filter repository.ReportFilter) ([]model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Report{}
	for i := len(f.reports) - 1; i >= 0; i-- {
		r := f.reports[i]
		if r.UserID != userID {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.ProjectID != "" && r.ProjectID != filter.ProjectID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) GetReport(_ context.Context, userID, id string) (*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reports {
		if r.ID == id && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, apperror.NotFound("report", id)
}

func (f *fakeStore) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commits)
}

// fakeSourceControl serves canned GitHub data. statsErr names SHAs whose
// stats fetch fails.
type fakeSourceControl struct {
	mu       sync.Mutex
	user     *github.User
	userErr  error
	repos    []github.Repository
	commits  []github.Commit
	listErr  error
	stats    map[string]github.CommitStats
	statsErr map[string]error

	since, until time.Time
	statsCalls   int
}

var _ SourceControl = (*fakeSourceControl)(nil)

func (f *fakeSourceControl) GetUser(context.Context) (*github.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeSourceControl) ListRepositories(context.Context) ([]github.Repository, error) {
	return f.repos, nil
}

func (f *fakeSourceControl) ListCommits(_ context.Context, _, _ string, since, until time.Time) ([]github.Commit, error) {
	f.since, f.until = since, until
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.commits, nil
}

func (f *fakeSourceControl) GetCommitStats(_ context.Context, _, _, sha string) (github.CommitStats, error) {
	f.mu.Lock()
	f.statsCalls++
	f.mu.Unlock()
	if err := f.statsErr[sha]; err != nil {
		return github.CommitStats{Additions: 999}, err
	}
	return f.stats[sha], nil
}

// staticClients hands out the same client for every user.
type staticClients struct {
	client SourceControl
	err    error
}

func (s staticClients) ClientFor(context.Context, string) (SourceControl, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

func commitFilterFor(projectIDs ...string) repository.CommitFilter {
	return repository.CommitFilter{ProjectIDs: projectIDs}
}
