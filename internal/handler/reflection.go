package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/service"
)

// ReflectionHandler serves the daily journal.
type ReflectionHandler struct {
	svc    *service.ReflectionService
	logger *slog.Logger
}

func NewReflectionHandler(svc *service.ReflectionService, logger *slog.Logger) *ReflectionHandler {
	return &ReflectionHandler{svc: svc, logger: logger}
}

// HandleGet returns the reflection for ?date= (today when absent), creating
// it on first read, together with that day's commits.
//
// HTTP: GET /api/reflections?date=YYYY-MM-DD
func (h *ReflectionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	view, err := h.svc.GetWithCommits(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

// HandleUpdate sets content and/or feeling of an existing reflection.
//
// HTTP: PUT /api/reflections {"date": "...", "content": "...", "feeling": "..."}
func (h *ReflectionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Date    string  `json:"date"`
		Content *string `json:"content"`
		Feeling *string `json:"feeling"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	refl, err := h.svc.Update(r.Context(), userID, req.Date, model.ReflectionUpdate{
		Content: req.Content,
		Feeling: req.Feeling,
	})
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, refl)
}
