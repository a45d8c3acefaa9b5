package dashboard

import (
	"encoding/json"
	"net/http"

	"log/slog"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/BOBWANDATI/backend/internal/service"
)

type Handler struct {
	logger *slog.Logger
	Stats  service.StatsService
}

func NewHandler(logger *slog.Logger, stats service.StatsService) *Handler {
	return &Handler{
		logger: logger,
		Stats:  stats,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminStats", slog.String("remote", r.RemoteAddr))

	stats, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		l.Error("dashboard stats failed", slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
