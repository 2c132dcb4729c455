package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// LogSender logs emails instead of sending them. The real transport is
// outside this service's scope.
type LogSender struct {
	lg *zap.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(lg *zap.Logger) *LogSender {
	return &LogSender{lg: lg}
}

// Send logs the email at info level.
func (s *LogSender) Send(_ context.Context, e Email) error {
	s.lg.Info("sending email",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
	)
	return nil
}

// Worker drains due emails from the scheduled queue and hands them to a
// Sender. Multiple workers may run concurrently: an email is processed
// only by the worker whose ZREM claims it.
type Worker struct {
	rdb         *redis.Client
	sender      Sender
	lg          *zap.Logger
	poll        time.Duration
	concurrency int
}

// NewWorker creates a Worker polling at the given interval.
func NewWorker(rdb *redis.Client, sender Sender, lg *zap.Logger, poll time.Duration, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Worker{rdb: rdb, sender: sender, lg: lg, poll: poll, concurrency: concurrency}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drainDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.lg.Error("drain scheduled emails", zap.Error(err))
			}
		}
	}
}

// drainDue claims and sends every email whose delivery time has passed.
func (w *Worker) drainDue(ctx context.Context) error {
	due, err := w.rdb.ZRangeByScore(ctx, QueueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil {
		return errors.Wrap(err, "range due emails")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, member := range due {
		g.Go(func() error {
			// ZREM claims the entry; zero means another worker took it.
			removed, err := w.rdb.ZRem(ctx, QueueKey, member).Result()
			if err != nil {
				return errors.Wrap(err, "claim email")
			}
			if removed == 0 {
				return nil
			}

			var e Email
			if err := json.Unmarshal([]byte(member), &e); err != nil {
				w.lg.Error("malformed email payload dropped", zap.Error(err))
				return nil
			}

			if err := w.sender.Send(ctx, e); err != nil {
				w.lg.Error("send email failed",
					zap.String("email_id", e.ID),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	return g.Wait()
}
