package components

import (
	"context"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/BOBWANDATI/backend/internal/api"
	"github.com/BOBWANDATI/backend/internal/auth"
	"github.com/BOBWANDATI/backend/internal/config"
	"github.com/BOBWANDATI/backend/internal/mailer"
	"github.com/BOBWANDATI/backend/internal/notify"
	"github.com/BOBWANDATI/backend/internal/service"
	"github.com/BOBWANDATI/backend/internal/storage/postgres"
	"github.com/BOBWANDATI/backend/internal/storage/redis"
	"github.com/BOBWANDATI/backend/internal/workers"
)

const mailQueueKey = "mail:queue"

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Hub        *notify.Hub
	MailWorker *workers.MailWorker
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	mailQueue := redis.NewMailQueue(redisClient.Client, mailQueueKey)

	var sender workers.MailSender = mailer.NewSMTPSender(cfg.SMTP)
	if cfg.SMTP.Disabled {
		sender = &mailer.NopSender{Logger: logger}
	}
	mailWorker := workers.NewMailWorker(mailQueue, sender, logger, cfg.SMTP.Workers)

	hub := notify.NewHub(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTL, cfg.Auth.ApprovalTokenTTL)

	reportSvc := service.NewReportService(storage.Incidents(), hub, logger)
	authSvc := service.NewAuthService(storage.Admins(), tokens, mailQueue, cfg.Links, logger)
	discussionSvc := service.NewDiscussionService(storage.Discussions(), hub, logger)
	statsSvc := service.NewStatsService(storage.Stats())

	svc := service.NewService(reportSvc, authSvc, discussionSvc, statsSvc)

	httpServer, err := api.NewServer(cfg, logger, svc, hub, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to init http server: %w", err)
	}
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		Hub:        hub,
		MailWorker: mailWorker,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
