package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/pourcart/internal/app"
	"github.com/xenking/pourcart/internal/notify"
)

// notify-worker drains the scheduled email queue and delivers due
// notifications. It runs as a separate process from the API server.
func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}

		rdb, err := notify.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		lg.Info("Starting email queue worker",
			zap.Duration("poll", cfg.Notify.Poll),
			zap.Int("concurrency", cfg.Notify.Concurrency),
		)

		sender := notify.NewLogSender(lg.Named("sender"))
		worker := notify.NewWorker(rdb, sender, lg, cfg.Notify.Poll, cfg.Notify.Concurrency)
		return worker.Run(ctx)
	})
}
