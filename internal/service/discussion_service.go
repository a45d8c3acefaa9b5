package service

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
	"github.com/BOBWANDATI/backend/pkg/validator"
)

type discussionService struct {
	repo   DiscussionRepository
	pub    Publisher
	logger *slog.Logger
}

func NewDiscussionService(repo DiscussionRepository, pub Publisher, logger *slog.Logger) DiscussionService {
	return &discussionService{
		repo:   repo,
		pub:    pub,
		logger: logger,
	}
}

func (s *discussionService) Create(ctx context.Context, req domain.CreateDiscussionRequest) (*domain.Discussion, error) {
	if err := validator.ValidateStruct(req); err != nil {
		s.logger.Warn("create discussion rejected", slog.Any("error", err))
		return nil, fmt.Errorf("create discussion: %w", e.ErrInvalidInput)
	}

	d := &domain.Discussion{
		ID:           uuid.New(),
		Title:        req.Title,
		Location:     req.Location,
		Category:     req.Category,
		Participants: 1,
		Messages: []domain.Message{{
			Text:   req.Message,
			Sender: req.Sender,
		}},
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("discussion created",
		slog.String("id", d.ID.String()),
		slog.String("title", d.Title),
	)

	s.pub.Publish(domain.EventNewDiscussion, d.Summary())
	s.publishFullList(ctx)

	return d, nil
}

func (s *discussionService) AddMessage(ctx context.Context, id uuid.UUID, req domain.AddMessageRequest) (*domain.Discussion, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("add message: %w", e.ErrInvalidInput)
	}

	msg := domain.Message{
		Text:   req.Text,
		Sender: req.Sender,
	}

	if _, err := s.repo.AddMessage(ctx, id, &msg); err != nil {
		return nil, err
	}

	s.pub.Publish(domain.EventNewDiscussionMessage, domain.DiscussionMessageEvent{
		DiscussionID: id,
		Message:      msg,
	})

	return s.repo.Get(ctx, id)
}

func (s *discussionService) List(ctx context.Context) ([]domain.DiscussionSummary, error) {
	discussions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ToDiscussionSummaries(discussions), nil
}

func (s *discussionService) Get(ctx context.Context, id uuid.UUID) (*domain.Discussion, error) {
	return s.repo.Get(ctx, id)
}

func (s *discussionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("discussion deleted", slog.String("id", id.String()))

	s.pub.Publish(domain.EventDiscussionDeleted, domain.DeletedEvent{ID: id.String()})
	s.publishFullList(ctx)

	return nil
}

func (s *discussionService) publishFullList(ctx context.Context) {
	discussions, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("discussion list refresh failed, all_discussions_update skipped", slog.Any("error", err))
		return
	}
	s.pub.Publish(domain.EventAllDiscussionsUpdate, domain.ToDiscussionSummaries(discussions))
}
