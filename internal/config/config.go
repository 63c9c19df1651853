package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains Elasticsearch parameters shared by the blog services.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Worker holds configuration for the Kafka -> Normalizer -> Elasticsearch worker.
type Worker struct {
	Common
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaConsumer    string
	KeywordLimit     int
	KeywordMinLength int
	DedupeCapacity   int
	DedupeTTL        time.Duration
	BatchSize        int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr         string
	DefaultPage      int
	MaxPage          int
	MaxBatch         int
	BatchConcurrency int
}

// Retention configures the cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// Pages locates the page corpus on disk.
type Pages struct {
	Dir string
	Ext string
}

// Diversify configures the boilerplate diversifier run.
type Diversify struct {
	Pages
	PerOccurrence bool
	LinkCap       int
}

// MediaFill configures the media slot filler run.
type MediaFill struct {
	Pages
	// TargetsFile overrides the embedded curated page list when set.
	TargetsFile string
}

func loadCommon() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "blog_posts"),
	}
}

func loadPages() Pages {
	ext := getEnv("PAGES_EXT", ".tsx")
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Pages{
		Dir: getEnv("PAGES_DIR", "src/pages"),
		Ext: ext,
	}
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common:           loadCommon(),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "blog_posts_raw"),
		KafkaConsumer:    getEnv("KAFKA_CONSUMER_GROUP", "blog-normalizer"),
		KeywordLimit:     getInt("WORKER_KEYWORD_LIMIT", 8),
		KeywordMinLength: getInt("WORKER_KEYWORD_MIN_LEN", 4),
		DedupeCapacity:   getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:        getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:        getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.KeywordLimit <= 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_LIMIT must be positive")
	}
	if c.KeywordMinLength < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_MIN_LEN cannot be negative")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common:           loadCommon(),
		BindAddr:         getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultPage:      getInt("API_PAGE_SIZE", 20),
		MaxPage:          getInt("API_MAX_PAGE_SIZE", 100),
		MaxBatch:         getInt("API_MAX_BATCH", 50),
		BatchConcurrency: getInt("API_BATCH_CONCURRENCY", 4),
	}

	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}
	if c.MaxBatch <= 0 {
		return nil, fmt.Errorf("API_MAX_BATCH must be positive")
	}
	if c.BatchConcurrency <= 0 {
		return nil, fmt.Errorf("API_BATCH_CONCURRENCY must be positive")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common:    loadCommon(),
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "2160h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

// LoadDiversify builds the diversifier config from environment variables.
func LoadDiversify() (*Diversify, error) {
	c := &Diversify{
		Pages:         loadPages(),
		PerOccurrence: getBool("DIVERSIFY_PER_OCCURRENCE", false),
		LinkCap:       getInt("DIVERSIFY_LINK_CAP", 3),
	}

	if c.Dir == "" {
		return nil, fmt.Errorf("PAGES_DIR must not be empty")
	}
	if c.LinkCap <= 0 {
		return nil, fmt.Errorf("DIVERSIFY_LINK_CAP must be positive")
	}

	return c, nil
}

// LoadMediaFill builds the media filler config from environment variables.
func LoadMediaFill() (*MediaFill, error) {
	c := &MediaFill{
		Pages:       loadPages(),
		TargetsFile: getEnv("MEDIA_TARGETS_FILE", ""),
	}

	if c.Dir == "" {
		return nil, fmt.Errorf("PAGES_DIR must not be empty")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err == nil {
		return d
	}
	fd, ferr := time.ParseDuration(fallback)
	if ferr != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
	}
	return fd
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
