package discussion

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
	logger      *slog.Logger
	Discussions service.DiscussionService
}

func NewHandler(logger *slog.Logger, discussions service.DiscussionService) *Handler {
	return &Handler{
		logger:      logger,
		Discussions: discussions,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Create", slog.String("remote", r.RemoteAddr))

	var req domain.CreateDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	d, err := h.Discussions.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("discussion created", slog.String("id", d.ID.String()))
	h.writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Discussions.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	d, err := h.Discussions.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

func (h *Handler) AddMessage(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	var req domain.AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	d, err := h.Discussions.AddMessage(r.Context(), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("message added", slog.String("discussion_id", id.String()))
	h.writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	if err := h.Discussions.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("discussion deleted", slog.String("id", id.String()))
	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "Discussion deleted successfully"})
}
