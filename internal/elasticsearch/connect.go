package elasticsearch

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Backoff controls how Connect retries an unreachable cluster.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff waits 2s, 4s, 8s... capped at 30s, ten times.
var DefaultBackoff = Backoff{Attempts: 10, Initial: 2 * time.Second, Max: 30 * time.Second}

// Connect creates a client and waits until the cluster answers a ping,
// doubling the delay between attempts. It gives up when the attempts run
// out or ctx is done.
func Connect(ctx context.Context, addr, index string, log *slog.Logger, b Backoff) (*Client, error) {
	client, err := New(addr, index, log)
	if err != nil {
		return nil, err
	}
	if b.Attempts <= 0 {
		b.Attempts = 1
	}

	delay := b.Initial
	var lastErr error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = client.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			return client, nil
		}
		if attempt == b.Attempts {
			break
		}

		client.log.Warn("elasticsearch ping failed, retrying",
			slog.Any("err", lastErr),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", b.Attempts),
			slog.Duration("retry_in", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return nil, fmt.Errorf("connect to elasticsearch after %d attempts: %w", b.Attempts, lastErr)
}
