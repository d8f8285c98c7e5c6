package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devagenda/internal/service"
)

type GitHubHandler struct {
	svc    *service.GitHubService
	logger *slog.Logger
}

func NewGitHubHandler(svc *service.GitHubService, logger *slog.Logger) *GitHubHandler {
	return &GitHubHandler{svc: svc, logger: logger}
}

// HandleConnect verifies a personal access token against GitHub and links
// the account to the current user.
//
// HTTP: POST /api/github/connect {"token": "...", "username": "..."}
func (h *GitHubHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	user, err := h.svc.Connect(r.Context(), userID, req.Token, req.Username)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, newUserView(user), "GitHub account connected")
}

// HTTP: GET /api/github/repositories
func (h *GitHubHandler) HandleRepositories(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	repos, err := h.svc.Repositories(r.Context(), userID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, repos)
}

// HTTP: GET /api/github/user
func (h *GitHubHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, profile)
}
