package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backlinkoo/content-pipeline/internal/config"
	"github.com/backlinkoo/content-pipeline/internal/elasticsearch"
	"github.com/backlinkoo/content-pipeline/internal/logger"
)

type purger interface {
	DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)
}

func main() {
	log := logger.New("retention")
	cfg, err := config.LoadRetention()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := elasticsearch.Connect(ctx, cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log, elasticsearch.DefaultBackoff)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("shutdown signal received during startup")
			return
		}
		log.Error("failed to connect to elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("connected to elasticsearch")

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("retention job running",
		slog.Duration("interval", cfg.Interval),
		slog.Duration("max_age", cfg.MaxAge),
	)

	runOnce(ctx, log, esClient, cfg)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(ctx, log, esClient, cfg)
		}
	}
}

// runOnce purges expired posts. Failures are logged and retried on the next
// tick.
func runOnce(ctx context.Context, log *slog.Logger, store purger, cfg *config.Retention) int64 {
	subCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	deleted, err := store.DeleteOlderThan(subCtx, cfg.MaxAge, cfg.BatchSize)
	if err != nil {
		log.Warn("retention run failed (will retry on next interval)",
			slog.Any("err", err),
			slog.Int64("deleted", deleted),
		)
		return deleted
	}

	if deleted > 0 {
		log.Info("retention run completed", slog.Int64("deleted", deleted))
	} else {
		log.Debug("retention run completed, no expired posts found")
	}
	return deleted
}
