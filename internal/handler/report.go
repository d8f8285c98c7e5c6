package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/period"
	"github.com/sakif/devagenda/internal/service"
)

// ReportHandler generates and reads weekly and monthly reports.
type ReportHandler struct {
	svc    *service.ReportService
	logger *slog.Logger
}

func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// HandleWeekly generates a report for the week containing ?weekStart=,
// defaulting to the current week.
//
// HTTP: GET /api/reports/weekly?projectId=&weekStart=
func (h *ReportHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, "weekStart", h.svc.GenerateWeekly)
}

// HTTP: GET /api/reports/monthly?projectId=&monthStart=
func (h *ReportHandler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, "monthStart", h.svc.GenerateMonthly)
}

type generateFunc func(ctx context.Context, userID, projectID string, ref time.Time) (*model.Report, error)

func (h *ReportHandler) generate(w http.ResponseWriter, r *http.Request, refParam string, gen generateFunc) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var ref time.Time
	if s := q.Get(refParam); s != "" {
		t, err := period.ParseDate(s, h.svc.Location())
		if err != nil {
			writeError(w, apperror.ValidationFailed(refParam, err.Error()))
			return
		}
		ref = t
	}

	report, err := gen(r.Context(), userID, q.Get("projectId"), ref)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, report)
}

// HandleList lists reports newest first, optionally filtered by ?type= and
// ?projectId=.
//
// HTTP: GET /api/reports
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	reports, err := h.svc.List(r.Context(), userID, model.ReportType(q.Get("type")), q.Get("projectId"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, reports)
}

// HTTP: GET /api/reports/{id}
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, report)
}
