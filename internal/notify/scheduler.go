// Package notify implements a Redis-backed delayed email queue. Scheduled
// emails land in a sorted set scored by delivery time; a separate worker
// process claims and sends due entries.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QueueKey is the sorted set holding scheduled emails.
const QueueKey = "email:scheduled"

// Delays between settlement and the two shipment notification emails.
const (
	ShippedDelay   = time.Hour
	DeliveredDelay = 2 * time.Hour
)

// Email is a queued notification. ID keeps otherwise identical emails
// distinct inside the sorted set.
type Email struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewRedis creates a redis client from a redis:// URL.
func NewRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return redis.NewClient(opts), nil
}

// Scheduler enqueues delayed emails. It implements order.Notifier.
type Scheduler struct {
	rdb *redis.Client
	now func() time.Time
}

// NewScheduler creates a Scheduler over the given redis client.
func NewScheduler(rdb *redis.Client) *Scheduler {
	return &Scheduler{rdb: rdb, now: time.Now}
}

// Schedule enqueues one email for delivery at deliverAt.
func (s *Scheduler) Schedule(ctx context.Context, e Email, deliverAt time.Time) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal email")
	}

	err = s.rdb.ZAdd(ctx, QueueKey, redis.Z{
		Score:  float64(deliverAt.Unix()),
		Member: payload,
	}).Err()
	if err != nil {
		return errors.Wrap(err, "enqueue email")
	}
	return nil
}

// ScheduleShipmentNotifications enqueues the shipped (+1h) and delivered
// (+2h) emails for a settled order.
func (s *Scheduler) ScheduleShipmentNotifications(ctx context.Context, email, trackingNumber string) error {
	now := s.now()

	subject, body := ShipmentShipped(trackingNumber)
	if err := s.Schedule(ctx, Email{To: email, Subject: subject, Body: body}, now.Add(ShippedDelay)); err != nil {
		return err
	}

	subject, body = ShipmentDelivered(trackingNumber)
	return s.Schedule(ctx, Email{To: email, Subject: subject, Body: body}, now.Add(DeliveredDelay))
}
