package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/internal/service"
	mock_service "github.com/BOBWANDATI/backend/internal/service/mocks"
	"github.com/BOBWANDATI/backend/pkg/e"
)

func TestDiscussionService_Create_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockDiscussionRepository(ctrl)
	pub := mock_service.NewMockPublisher(ctrl)

	var got *domain.Discussion
	gomock.InOrder(
		repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *domain.Discussion) error {
				got = d
				return nil
			}).
			Times(1),
		pub.EXPECT().Publish(domain.EventNewDiscussion, gomock.Any()).Times(1),
		repo.EXPECT().List(gomock.Any()).Return([]*domain.Discussion{}, nil).Times(1),
		pub.EXPECT().Publish(domain.EventAllDiscussionsUpdate, gomock.Any()).Times(1),
	)

	svc := service.NewDiscussionService(repo, pub, discardLogger())

	req := domain.CreateDiscussionRequest{
		Title:    "Street lighting on Moi Avenue",
		Location: "Nairobi CBD",
		Category: "Infrastructure",
		Message:  "Half the lights have been out for a month.",
		Sender:   "resident-42",
	}

	d, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if got.Participants != 1 {
		t.Fatalf("new discussion must start with 1 participant, got %d", got.Participants)
	}
	if len(got.Messages) != 1 || got.Messages[0].Text != req.Message {
		t.Fatalf("opening message missing: %+v", got.Messages)
	}
}

func TestDiscussionService_Create_ValidationError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockDiscussionRepository(ctrl)
	pub := mock_service.NewMockPublisher(ctrl)

	svc := service.NewDiscussionService(repo, pub, discardLogger())

	req := domain.CreateDiscussionRequest{Title: "no opening message"}

	if _, err := svc.Create(context.Background(), req); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDiscussionService_AddMessage_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockDiscussionRepository(ctrl)
	pub := mock_service.NewMockPublisher(ctrl)

	id := uuid.New()
	refreshed := &domain.Discussion{ID: id, Participants: 3}

	gomock.InOrder(
		repo.EXPECT().
			AddMessage(gomock.Any(), id, gomock.Any()).
			Return(3, nil).
			Times(1),
		pub.EXPECT().
			Publish(domain.EventNewDiscussionMessage, gomock.Any()).
			Do(func(_ string, payload any) {
				ev, ok := payload.(domain.DiscussionMessageEvent)
				if !ok {
					t.Fatalf("unexpected payload type %T", payload)
				}
				if ev.DiscussionID != id {
					t.Fatalf("event carries wrong discussion id: %s", ev.DiscussionID)
				}
			}).
			Times(1),
		repo.EXPECT().Get(gomock.Any(), id).Return(refreshed, nil).Times(1),
	)

	svc := service.NewDiscussionService(repo, pub, discardLogger())

	d, err := svc.AddMessage(context.Background(), id, domain.AddMessageRequest{
		Text:   "Same on Kenyatta Avenue.",
		Sender: "resident-7",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.Participants != 3 {
		t.Fatalf("expected refreshed participant count, got %d", d.Participants)
	}
}

func TestDiscussionService_AddMessage_NotFound_NothingPublished(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockDiscussionRepository(ctrl)
	pub := mock_service.NewMockPublisher(ctrl)

	id := uuid.New()
	repo.EXPECT().AddMessage(gomock.Any(), id, gomock.Any()).Return(0, e.ErrNotFound).Times(1)

	svc := service.NewDiscussionService(repo, pub, discardLogger())

	_, err := svc.AddMessage(context.Background(), id, domain.AddMessageRequest{
		Text:   "into the void",
		Sender: "resident-7",
	})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscussionService_Delete_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockDiscussionRepository(ctrl)
	pub := mock_service.NewMockPublisher(ctrl)

	id := uuid.New()

	gomock.InOrder(
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil).Times(1),
		pub.EXPECT().
			Publish(domain.EventDiscussionDeleted, domain.DeletedEvent{ID: id.String()}).
			Times(1),
		repo.EXPECT().List(gomock.Any()).Return([]*domain.Discussion{}, nil).Times(1),
		pub.EXPECT().Publish(domain.EventAllDiscussionsUpdate, gomock.Any()).Times(1),
	)

	svc := service.NewDiscussionService(repo, pub, discardLogger())

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDiscussionService_List_Summaries(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockDiscussionRepository(ctrl)
	pub := mock_service.NewMockPublisher(ctrl)

	repo.EXPECT().
		List(gomock.Any()).
		Return([]*domain.Discussion{
			{ID: uuid.New(), Title: "one", Participants: 2, Messages: []domain.Message{{Text: "hidden"}}},
			{ID: uuid.New(), Title: "two", Participants: 5},
		}, nil).
		Times(1)

	svc := service.NewDiscussionService(repo, pub, discardLogger())

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Participants != 2 || summaries[1].Participants != 5 {
		t.Fatalf("participant counts mismatch: %+v", summaries)
	}
}
