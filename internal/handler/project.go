package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/period"
	"github.com/sakif/devagenda/internal/service"
)

// ProjectHandler serves /api/projects and the per-project commit views.
type ProjectHandler struct {
	projects *service.ProjectService
	commits  *service.CommitService
	sync     *service.SyncService
	loc      *time.Location
	logger   *slog.Logger
}

func NewProjectHandler(
	projects *service.ProjectService,
	commits *service.CommitService,
	sync *service.SyncService,
	loc *time.Location,
	logger *slog.Logger,
) *ProjectHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ProjectHandler{projects: projects, commits: commits, sync: sync, loc: loc, logger: logger}
}

type projectRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Status      *model.ProjectStatus `json:"status"`
	GitHubOwner *string              `json:"githubOwner"`
	GitHubRepo  *string              `json:"githubRepo"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// HandleList lists projects, optionally filtered by ?status=.
//
// HTTP: GET /api/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	status := model.ProjectStatus(r.URL.Query().Get("status"))
	projects, err := h.projects.List(r.Context(), userID, status)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, projects)
}

// HTTP: GET /api/projects/by-status
func (h *ProjectHandler) HandleByStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	board, err := h.projects.ByStatus(r.Context(), userID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, board)
}

// HTTP: POST /api/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	p, err := h.projects.Create(r.Context(), userID, service.ProjectInput{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Status:      deref(req.Status),
		GitHubOwner: deref(req.GitHubOwner),
		GitHubRepo:  deref(req.GitHubRepo),
	})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	p, err := h.projects.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// HandleUpdate applies the fields present in the body.
//
// HTTP: PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	p, err := h.projects.Update(r.Context(), userID, chi.URLParam(r, "id"), service.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		GitHubOwner: req.GitHubOwner,
		GitHubRepo:  req.GitHubRepo,
	})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// HTTP: DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.projects.Delete(r.Context(), userID, id); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	h.logger.Info("project deleted", slog.String("user_id", userID), slog.String("id", id))
	writeMessage(w, http.StatusOK, nil, "Project deleted successfully")
}

// HTTP: POST /api/projects/{id}/sync
func (h *ProjectHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.sync.SyncProject(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK,
		map[string]int{"commitsCount": n},
		fmt.Sprintf("Synced %d commits", n))
}

// HandleCommits lists commits, optionally bounded by ?startDate= and
// ?endDate= and grouped by day with ?groupBy=day.
//
// HTTP: GET /api/projects/{id}/commits
func (h *ProjectHandler) HandleCommits(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	from, err := h.bound(q.Get("startDate"), false)
	if err != nil {
		writeError(w, apperror.ValidationFailed("startDate", err.Error()))
		return
	}
	to, err := h.bound(q.Get("endDate"), true)
	if err != nil {
		writeError(w, apperror.ValidationFailed("endDate", err.Error()))
		return
	}

	projectID := chi.URLParam(r, "id")
	switch strings.ToLower(q.Get("groupBy")) {
	case "":
		commits, err := h.commits.List(r.Context(), userID, projectID, from, to)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, commits)
	case "day":
		days, err := h.commits.ByDay(r.Context(), userID, projectID, from, to)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, days)
	default:
		writeError(w, apperror.ValidationFailed("groupBy", "groupBy must be day"))
	}
}

// HTTP: GET /api/projects/{id}/stats
func (h *ProjectHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.commits.Stats(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *ProjectHandler) bound(s string, end bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return period.ParseBound(s, end, h.loc)
}
