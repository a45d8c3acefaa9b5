package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID     uuid.UUID `json:"id"`
	Text   string    `json:"text"`
	Sender string    `json:"sender"`
	SentAt time.Time `json:"time"`
}

type Discussion struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Participants int       `json:"participants"`
	Messages     []Message `json:"messages,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DiscussionSummary omits the message bodies for list views and the
// new_discussion_created / all_discussions_update payloads.
type DiscussionSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (d *Discussion) Summary() DiscussionSummary {
	return DiscussionSummary{
		ID:           d.ID,
		Title:        d.Title,
		Location:     d.Location,
		Category:     d.Category,
		Participants: d.Participants,
		CreatedAt:    d.CreatedAt,
	}
}

func ToDiscussionSummaries(src []*Discussion) []DiscussionSummary {
	out := make([]DiscussionSummary, 0, len(src))
	for _, d := range src {
		out = append(out, d.Summary())
	}
	return out
}

type CreateDiscussionRequest struct {
	Title    string `json:"title" validate:"required"`
	Location string `json:"location" validate:"required"`
	Category string `json:"category" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Sender   string `json:"sender" validate:"required"`
}

type AddMessageRequest struct {
	Text   string `json:"text" validate:"required"`
	Sender string `json:"sender" validate:"required"`
}

// DiscussionMessageEvent is the new_discussion_message payload.
type DiscussionMessageEvent struct {
	DiscussionID uuid.UUID `json:"discussionId"`
	Message      Message   `json:"message"`
}
