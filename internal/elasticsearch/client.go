package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/backlinkoo/content-pipeline/internal/models"
)

// Client stores normalized blog posts in a single Elasticsearch index.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// SearchParams narrow the posts query.
type SearchParams struct {
	Query    string
	Keywords []string
	Source   string
	From     int
	Size     int
	Sort     string
	Start    *time.Time
	End      *time.Time
}

// SearchResult bundles hits and total count.
type SearchResult struct {
	Total int64             `json:"total"`
	Items []models.BlogPost `json:"items"`
}

const (
	defaultSize = 20
	maxSize     = 200
)

var sortable = map[string]struct{}{
	"timestamp": {},
	"_score":    {},
	"slug":      {},
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":        map[string]any{"type": "keyword"},
			"title":     map[string]any{"type": "text"},
			"slug":      map[string]any{"type": "keyword"},
			"html":      map[string]any{"type": "text", "index": false},
			"text":      map[string]any{"type": "text"},
			"keywords":  map[string]any{"type": "keyword"},
			"source":    map[string]any{"type": "keyword"},
			"urls":      map[string]any{"type": "keyword"},
			"timestamp": map[string]any{"type": "date"},
		},
	},
}

// New instantiates the Elasticsearch client.
func New(addr, index string, logger *slog.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{es: es, index: index, log: logger}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the posts index with its mapping unless it exists.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	payload, err := json.Marshal(indexMapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		// Another worker may have won the race.
		if strings.Contains(string(data), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index failed: %s", strings.TrimSpace(string(data)))
	}
	c.log.Info("index created", slog.String("index", c.index))
	return nil
}

// IndexPost writes a post, replacing any document with the same ID.
func (c *Client) IndexPost(ctx context.Context, post models.BlogPost) error {
	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: post.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index post: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index post failed: %s", strings.TrimSpace(string(body)))
	}
	return nil
}

// SearchPosts executes a bool query with optional filters.
func (c *Client) SearchPosts(ctx context.Context, params SearchParams) (*SearchResult, error) {
	payload, err := json.Marshal(BuildSearchBody(params))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.BlogPost `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]models.BlogPost, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, hit.Source)
	}
	return &SearchResult{Total: parsed.Hits.Total.Value, Items: items}, nil
}

// BuildSearchBody renders params as an Elasticsearch query document.
// Size is clamped to [1, 200]; unknown sort fields fall back to timestamp.
func BuildSearchBody(params SearchParams) map[string]any {
	if params.Size <= 0 {
		params.Size = defaultSize
	}
	if params.Size > maxSize {
		params.Size = maxSize
	}
	if params.From < 0 {
		params.From = 0
	}

	var must, filters []map[string]any
	if q := strings.TrimSpace(params.Query); q != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "keywords^2", "text"},
			},
		})
	}
	if len(params.Keywords) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"keywords": params.Keywords},
		})
	}
	if params.Source != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"source": params.Source},
		})
	}
	if params.Start != nil || params.End != nil {
		rangeQuery := map[string]any{}
		if params.Start != nil {
			rangeQuery["gte"] = params.Start.UTC().Format(time.RFC3339)
		}
		if params.End != nil {
			rangeQuery["lte"] = params.End.UTC().Format(time.RFC3339)
		}
		filters = append(filters, map[string]any{
			"range": map[string]any{"timestamp": rangeQuery},
		})
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if len(boolQuery) == 0 {
		boolQuery["must"] = []map[string]any{{"match_all": map[string]any{}}}
	}

	field, order := parseSort(params.Sort)
	return map[string]any{
		"from":             params.From,
		"size":             params.Size,
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
		"sort":             []map[string]any{{field: map[string]any{"order": order}}},
	}
}

func parseSort(raw string) (string, string) {
	field, order, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if _, ok := sortable[field]; !ok {
		field = "timestamp"
	}
	order = strings.ToLower(order)
	if order != "asc" {
		order = "desc"
	}
	return field, order
}

// DeleteOlderThan removes posts older than maxAge using batched
// delete-by-query. It loops until a batch deletes fewer than batchSize posts.
func (c *Client) DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	cutoff := time.Now().Add(-maxAge).UTC().Format(time.RFC3339)
	payload, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{"lte": cutoff},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal delete body: %w", err)
	}

	var total int64
	for {
		deleted, err := c.deleteBatch(ctx, payload, batchSize)
		total += deleted
		if err != nil {
			return total, err
		}
		if deleted < int64(batchSize) {
			return total, nil
		}
	}
}

func (c *Client) deleteBatch(ctx context.Context, payload []byte, batchSize int) (int64, error) {
	res, err := c.es.DeleteByQuery(
		[]string{c.index},
		bytes.NewReader(payload),
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithWaitForCompletion(true),
		c.es.DeleteByQuery.WithConflicts("proceed"),
		c.es.DeleteByQuery.WithMaxDocs(batchSize),
	)
	if err != nil {
		return 0, fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("delete by query failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode delete response: %w", err)
	}
	return parsed.Deleted, nil
}

// Health reports whether the cluster answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("cluster health: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cluster health bad: %s", strings.TrimSpace(string(data)))
	}
	return nil
}
