package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/backlinkoo/content-pipeline/internal/config"
	"github.com/backlinkoo/content-pipeline/internal/logger"
	"github.com/backlinkoo/content-pipeline/internal/media"
	"github.com/backlinkoo/content-pipeline/internal/models"
	"github.com/backlinkoo/content-pipeline/internal/pages"
)

type report struct {
	models.RunSummary
	Issues []string
	Fixed  int
	Videos int
}

func main() {
	log := logger.New("mediafill").With("run_id", uuid.NewString())
	cfg, err := config.LoadMediaFill()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	rep, err := run(ctx, log, cfg)
	if err != nil {
		log.Error("fill media", slog.Any("err", err))
		os.Exit(1)
	}
	printReport(os.Stdout, rep)
}

func run(ctx context.Context, log *slog.Logger, cfg *config.MediaFill) (report, error) {
	targets, err := media.Targets(cfg.TargetsFile)
	if err != nil {
		return report{}, err
	}
	store := pages.NewFS(cfg.Dir, cfg.Ext)
	log.Info("filling media slots", slog.String("dir", cfg.Dir), slog.Int("targets", len(targets)))

	rep := fill(ctx, log, store, targets)

	log.Info("media fill finished",
		slog.Int("scanned", rep.Scanned),
		slog.Int("modified", rep.Modified),
		slog.Int("fixed", rep.Fixed),
		slog.Int("failed", rep.Failed),
	)
	return rep, nil
}

// fill runs the media filler over targets in order.
func fill(ctx context.Context, log *slog.Logger, store pages.Store, targets []string) report {
	var rep report
	// counter carries the number of fills so far from one page to the next.
	counter := 0
	// Fills only count once the page is written; the counter advances either way.
	rep.RunSummary = pages.Run(ctx, log, store, targets, func(doc models.PageDocument) (string, func()) {
		out, next, res := media.FillPage(doc.Name, doc.Content, counter)
		counter = next
		if res.Issue {
			log.Warn("page has no media container", slog.String("page", doc.Name))
			rep.Issues = append(rep.Issues, doc.Name)
		}
		return out, func() {
			rep.Fixed += res.Filled
			rep.Videos += res.Videos
		}
	})
	return rep
}

func printReport(w io.Writer, rep report) {
	fmt.Fprintln(w, "Media fill report")
	fmt.Fprintf(w, "  files scanned:           %d\n", rep.Scanned)
	fmt.Fprintf(w, "  files modified:          %d\n", rep.Modified)
	fmt.Fprintf(w, "  files with issues:       %d\n", len(rep.Issues))
	fmt.Fprintf(w, "  empty media divs fixed:  %d (%d videos)\n", rep.Fixed, rep.Videos)
	if rep.Failed > 0 {
		fmt.Fprintf(w, "  failures:                %d\n", rep.Failed)
	}
	for _, name := range rep.Issues {
		fmt.Fprintf(w, "  ! %s has no media container\n", name)
	}
}
