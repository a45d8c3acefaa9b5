package report

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/internal/service"
)

type Handler struct {
	logger  *slog.Logger
	Reports service.ReportService
}

func NewHandler(logger *slog.Logger, reports service.ReportService) *Handler {
	return &Handler{
		logger:  logger,
		Reports: reports,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Submit", slog.String("remote", r.RemoteAddr))

	var req domain.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	inc, err := h.Reports.Submit(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("report submitted", slog.String("id", inc.ID.String()))
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"msg":      "Report submitted successfully",
		"incident": inc,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("List", slog.String("remote", r.RemoteAddr))

	items, err := h.Reports.ListAll(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("reports listed", slog.Int("count", len(items)))
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Map", slog.String("remote", r.RemoteAddr))

	points, stats, err := h.Reports.MapView(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"incidents": points,
		"stats":     stats,
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("UpdateStatus", slog.String("remote", r.RemoteAddr))

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	inc, err := h.Reports.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("status updated", slog.String("id", id.String()), slog.String("status", string(req.Status)))
	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Delete", slog.String("remote", r.RemoteAddr))

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.Reports.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("report deleted", slog.String("id", id.String()))
	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Incident deleted successfully"})
}
