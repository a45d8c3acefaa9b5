package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/internal/render"
	"github.com/BOBWANDATI/backend/internal/service"
	"github.com/BOBWANDATI/backend/pkg/e"
)

type Handler struct {
	logger   *slog.Logger
	Auth     service.AuthService
	renderer *render.Renderer
}

func NewHandler(logger *slog.Logger, auth service.AuthService, renderer *render.Renderer) *Handler {
	return &Handler{
		logger:   logger,
		Auth:     auth,
		renderer: renderer,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Register", slog.String("remote", r.RemoteAddr))

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resp, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Login", slog.String("remote", r.RemoteAddr))

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Approve lands the super admin here straight from the emailed link, so the
// response is a browser page rather than JSON.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	token := chi.URLParam(r, "token")

	profile, err := h.Auth.ApproveViaToken(r.Context(), token)
	switch {
	case err == nil:
		h.renderer.Render(w, http.StatusOK, "approve_success.html", approvePage{
			Username: profile.Username,
		})
	case errors.Is(err, e.ErrAlreadyApproved):
		// A second click on the same link is not an error for the clicker.
		h.renderer.Render(w, http.StatusOK, "approve_success.html", approvePage{
			Username:        profile.Username,
			AlreadyApproved: true,
		})
	case errors.Is(err, e.ErrInvalidToken):
		l.Warn("approval link rejected")
		h.renderer.Render(w, http.StatusBadRequest, "approve_failure.html", failurePage{
			Reason: "This approval link is invalid or has expired.",
		})
	case errors.Is(err, e.ErrNotFound):
		h.renderer.Render(w, http.StatusNotFound, "approve_failure.html", failurePage{
			Reason: "The admin account no longer exists.",
		})
	default:
		l.Error("approval failed", slog.Any("error", err))
		h.renderer.Render(w, http.StatusInternalServerError, "approve_failure.html", failurePage{
			Reason: "Something went wrong. Please try again later.",
		})
	}
}
