package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
)

type MailQueue interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.MailMessage, error)
}

type MailSender interface {
	Send(msg domain.MailMessage) error
}

// MailWorker drains the mail queue and hands messages to SMTP. Delivery is
// best-effort: a failed send is logged prominently and dropped, never retried,
// because the account/token state it refers to is already committed.
type MailWorker struct {
	queue    MailQueue
	sender   MailSender
	logger   *slog.Logger
	poolSize int
}

func NewMailWorker(queue MailQueue, sender MailSender, logger *slog.Logger, poolSize int) *MailWorker {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &MailWorker{
		queue:    queue,
		sender:   sender,
		logger:   logger,
		poolSize: poolSize,
	}
}

func (w *MailWorker) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.worker(ctx, id)
		}(i)
	}

	wg.Wait()
}

func (w *MailWorker) worker(ctx context.Context, id int) {
	l := w.logger.With(slog.Int("mail_worker", id))

	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := w.queue.BRPop(ctx, 5*time.Second)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			l.Error("mail queue pop failed", slog.Any("error", err))
			continue
		}

		if err := w.sender.Send(msg); err != nil {
			// The recipient will never find out about the state change.
			l.Error("MAIL DELIVERY FAILED, recipient not notified",
				slog.String("to", msg.To),
				slog.String("subject", msg.Subject),
				slog.Any("error", err),
			)
			continue
		}

		l.Info("mail delivered", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	}
}
