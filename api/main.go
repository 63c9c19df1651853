package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/backlinkoo/content-pipeline/internal/config"
	"github.com/backlinkoo/content-pipeline/internal/elasticsearch"
	"github.com/backlinkoo/content-pipeline/internal/logger"
	"github.com/backlinkoo/content-pipeline/internal/normalizer"
)

const maxBodyBytes = 4 << 20

type postStore interface {
	SearchPosts(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
	Health(ctx context.Context) error
}

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{log: log, cfg: cfg, store: esClient}
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log   *slog.Logger
	cfg   *config.API
	store postStore
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/posts", s.handleSearch)
	r.Post("/normalize", s.handleNormalize)
	r.Post("/normalize/batch", s.handleNormalizeBatch)
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

type normalizeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type normalizeResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	HTML  string `json:"html"`
}

type batchRequest struct {
	Items []normalizeRequest `json:"items"`
}

type batchResponse struct {
	Items []normalizeResponse `json:"items"`
}

func toResponse(a normalizer.Article) normalizeResponse {
	return normalizeResponse{Title: a.Title, Body: a.Body, HTML: a.HTML}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(normalizer.Normalize(req.Title, req.Content)))
}

func (s *server) handleNormalizeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "items must not be empty"})
		return
	}
	if len(req.Items) > s.cfg.MaxBatch {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("batch of %d items exceeds limit %d", len(req.Items), s.cfg.MaxBatch),
		})
		return
	}

	out := make([]normalizeResponse, len(req.Items))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, item := range req.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = toResponse(normalizer.Normalize(item.Title, item.Content))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("batch normalize aborted", slog.Any("err", err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	s.log.Debug("batch normalized", slog.Int("items", len(out)))
	writeJSON(w, http.StatusOK, batchResponse{Items: out})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Keywords: parseCSV(q.Get("keywords")),
		Source:   strings.TrimSpace(q.Get("source")),
		From:     clampInt(q.Get("from"), 0, 10_000),
		Size:     clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage),
		Sort:     strings.TrimSpace(q.Get("sort")),
		Start:    parseTime(q.Get("start")),
		End:      parseTime(q.Get("end")),
	}

	result, err := s.store.SearchPosts(ctx, params)
	if err != nil {
		s.log.Error("search posts", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts
	}
	return nil
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
