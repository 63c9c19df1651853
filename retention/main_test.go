package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/backlinkoo/content-pipeline/internal/config"
	"github.com/backlinkoo/content-pipeline/internal/logger"
)

type stubPurger struct {
	maxAge    time.Duration
	batchSize int
	deleted   int64
	err       error
}

func (s *stubPurger) DeleteOlderThan(_ context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	s.maxAge, s.batchSize = maxAge, batchSize
	return s.deleted, s.err
}

func TestRunOncePassesConfig(t *testing.T) {
	cfg := &config.Retention{MaxAge: 90 * 24 * time.Hour, BatchSize: 250}
	store := &stubPurger{deleted: 12}

	require.Equal(t, int64(12), runOnce(context.Background(), logger.Discard(), store, cfg))
	require.Equal(t, cfg.MaxAge, store.maxAge)
	require.Equal(t, 250, store.batchSize)
}

func TestRunOnceReportsPartialProgress(t *testing.T) {
	store := &stubPurger{deleted: 500, err: errors.New("timeout")}
	got := runOnce(context.Background(), logger.Discard(), store, &config.Retention{MaxAge: time.Hour, BatchSize: 500})
	require.Equal(t, int64(500), got)
}
