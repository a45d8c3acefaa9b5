package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
)

// MailQueue buffers outbound notification mail between the request path and
// the SMTP workers. Enqueue failures are the caller's to log, never to bubble:
// the state change that triggered the mail is already committed.
type MailQueue struct {
	client *redis.Client
	key    string
}

func NewMailQueue(client *redis.Client, key string) *MailQueue {
	return &MailQueue{client: client, key: key}
}

func (q *MailQueue) Enqueue(ctx context.Context, msg domain.MailMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

func (q *MailQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.MailMessage, error) {
	var m domain.MailMessage

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return m, e.ErrQueueEmpty
		}
		return m, err
	}
	if len(res) < 2 {
		return m, redis.Nil
	}
	if err := json.Unmarshal([]byte(res[1]), &m); err != nil {
		return m, err
	}
	return m, nil
}
