package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/auth"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/service"
)

// AuthHandler starts and ends sessions and reports who is signed in.
type AuthHandler struct {
	svc    *service.AuthService
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, logger: logger}
}

// userView is the public shape of a user; the sealed token never leaves
// the server.
type userView struct {
	ID              string `json:"id"`
	GitHubUsername  string `json:"githubUsername"`
	GitHubConnected bool   `json:"githubConnected"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	Token           string `json:"token,omitempty"`
}

func newUserView(u *model.User) userView {
	return userView{
		ID:              u.ID,
		GitHubUsername:  u.GitHubUsername,
		GitHubConnected: u.GitHubConnected(),
		Name:            u.Name,
		Email:           u.Email,
		AvatarURL:       u.AvatarURL,
	}
}

// HandleInit gets or creates the user and opens a session.
//
// HTTP: POST /api/auth/init {"userId": "..."}
//
// The token is returned in the body for API clients and set as an HttpOnly
// cookie for browsers.
func (h *AuthHandler) HandleInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	res, err := h.svc.Init(r.Context(), req.UserID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.tokens, r.TLS != nil)

	view := newUserView(res.User)
	view.Token = res.Token
	writeData(w, http.StatusOK, view)
}

// HandleLogout clears the session cookie. Tokens are stateless, so a copy
// held elsewhere stays valid until it expires.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeMessage(w, http.StatusOK, nil, "Logged out")
}

// HandleMe returns the signed-in user.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, newUserView(user))
}

// currentUser returns the authenticated user id or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return "", false
	}
	return userID, true
}
