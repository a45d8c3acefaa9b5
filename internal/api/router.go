package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	authh "github.com/BOBWANDATI/backend/internal/api/handlers/http/auth"
	"github.com/BOBWANDATI/backend/internal/api/handlers/http/dashboard"
	"github.com/BOBWANDATI/backend/internal/api/handlers/http/discussion"
	"github.com/BOBWANDATI/backend/internal/api/handlers/http/report"
	"github.com/BOBWANDATI/backend/internal/api/handlers/http/system"
	"github.com/BOBWANDATI/backend/internal/config"
	"github.com/BOBWANDATI/backend/internal/middleware"
	"github.com/BOBWANDATI/backend/internal/notify"
	"github.com/BOBWANDATI/backend/internal/render"
	"github.com/BOBWANDATI/backend/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	svc *service.Service,
	hub *notify.Hub,
	sessions middleware.SessionVerifier,
) (*Server, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	reportHandler := report.NewHandler(logger, svc.Reports)
	authHandler := authh.NewHandler(logger, svc.Auth, renderer)
	discussionHandler := discussion.NewHandler(logger, svc.Discussions)
	dashboardHandler := dashboard.NewHandler(logger, svc.Stats)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(reportHandler, authHandler, discussionHandler, dashboardHandler, systemHandler, hub, sessions, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}, nil
}

func InitRouter(
	reportHandler *report.Handler,
	authHandler *authh.Handler,
	discussionHandler *discussion.Handler,
	dashboardHandler *dashboard.Handler,
	systemHandler *system.Handler,
	hub *notify.Hub,
	sessions middleware.SessionVerifier,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	sessionAuth := middleware.SessionAuth(sessions, logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/report", func(rr chi.Router) {
			rr.With(middleware.Limit(5, 10, 10*time.Minute, logger)).
				Post("/submit", reportHandler.Submit)
			rr.Get("/", reportHandler.List)
			rr.Get("/map", reportHandler.Map)

			rr.Route("/{id}", func(ir chi.Router) {
				ir.Use(sessionAuth)
				ir.Put("/status", reportHandler.UpdateStatus)
				ir.Delete("/", reportHandler.Delete)
			})
		})

		api.Route("/auth", func(ar chi.Router) {
			ar.Use(middleware.Limit(5, 10, 10*time.Minute, logger))
			ar.Post("/register", authHandler.Register)
			ar.Post("/login", authHandler.Login)
			// The token in the path is the sole credential.
			ar.Get("/approve/{token}", authHandler.Approve)
		})

		api.Route("/discussions", func(dr chi.Router) {
			dr.Post("/", discussionHandler.Create)
			dr.Get("/", discussionHandler.List)
			dr.Get("/{id}", discussionHandler.Get)
			dr.Post("/{id}/messages", discussionHandler.AddMessage)
			dr.With(sessionAuth).Delete("/{id}", discussionHandler.Delete)
		})

		api.Route("/admin", func(ar chi.Router) {
			ar.Use(sessionAuth)
			ar.Get("/stats", dashboardHandler.AdminStats)
		})

		api.Get("/health", systemHandler.SystemHealth)
	})

	r.Get("/ws", hub.ServeWS)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
