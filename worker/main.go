package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/backlinkoo/content-pipeline/internal/config"
	"github.com/backlinkoo/content-pipeline/internal/dedupe"
	"github.com/backlinkoo/content-pipeline/internal/elasticsearch"
	"github.com/backlinkoo/content-pipeline/internal/logger"
	"github.com/backlinkoo/content-pipeline/internal/models"
	"github.com/backlinkoo/content-pipeline/internal/normalizer"
	"github.com/backlinkoo/content-pipeline/internal/processing"
)

type rawPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

type postIndexer interface {
	IndexPost(ctx context.Context, post models.BlogPost) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

const dlqAttempts = 5

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := elasticsearch.Connect(ctx, cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log, elasticsearch.DefaultBackoff)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}
	if err := esClient.EnsureIndex(ctx); err != nil {
		log.Error("ensure index", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + "_dlq"
	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        dlqTopic,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, cache, cfg, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			// Commit only once the message is parked; otherwise it is
			// redelivered after restart.
			if !sendToDLQ(ctx, log, dlqWriter, msg, err, time.Second) {
				if ctx.Err() != nil {
					return
				}
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// sendToDLQ writes msg with its failure context to the dead-letter topic,
// retrying with exponential backoff starting at base. It reports whether the
// write eventually succeeded.
func sendToDLQ(ctx context.Context, log *slog.Logger, w messageWriter, msg kafka.Message, cause error, base time.Duration) bool {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	)
	dlqMsg := kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}

	for attempt := range dlqAttempts {
		dlqErr := w.WriteMessages(ctx, dlqMsg)
		if dlqErr == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := base << uint(attempt)
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", dlqErr),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			log.Info("context canceled during DLQ retry")
			return false
		}
	}

	log.Error("DLQ write exhausted retries, message left uncommitted",
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	return false
}

func processMessage(ctx context.Context, log *slog.Logger, indexer postIndexer, cache *dedupe.Cache, cfg *config.Worker, msg kafka.Message) error {
	var payload rawPost
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	title := strings.TrimSpace(payload.Title)
	content := strings.TrimSpace(payload.Content)
	if title == "" && content == "" {
		return errors.New("empty payload")
	}

	pageURL := strings.TrimSpace(payload.URL)
	if pageURL != "" && processing.IsDocument(content) {
		pageTitle, mainHTML, err := processing.ExtractMainContent(content, pageURL)
		if err != nil {
			log.Debug("main content extraction failed, using raw content",
				slog.String("url", pageURL),
				slog.Any("err", err),
			)
		} else {
			content = mainHTML
			if title == "" {
				title = pageTitle
			}
		}
	}

	article := normalizer.Normalize(title, content)

	key := dedupe.Key(article.Title, article.Body)
	if cache.Seen(key) {
		log.Debug("duplicate post", slog.String("title", article.Title))
		return nil
	}

	text, err := processing.PlainText(article.Body)
	if err != nil {
		log.Debug("markdown rendition failed", slog.Any("err", err))
		text = processing.CleanText(article.Body)
	}

	ts := parseTimestamp(payload.Timestamp)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = "unknown"
	}

	slug := processing.Slugify(article.Title)
	post := models.BlogPost{
		ID:        strings.TrimSpace(payload.ID),
		Title:     article.Title,
		Slug:      slug,
		HTML:      article.HTML,
		Text:      text,
		Keywords:  processing.ExtractKeywords(article.Title+" "+text, cfg.KeywordLimit, cfg.KeywordMinLength),
		Source:    source,
		URLs:      processing.ExtractLinks(article.Body),
		Timestamp: ts,
	}
	if post.ID == "" {
		post.ID = processing.BuildDocumentID(source, slug, ts)
	}

	if err := indexer.IndexPost(ctx, post); err != nil {
		return err
	}

	cache.Mark(key)
	log.Info("indexed post", slog.String("id", post.ID), slog.String("slug", post.Slug))
	return nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
