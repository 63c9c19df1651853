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
	"github.com/backlinkoo/content-pipeline/internal/diversify"
	"github.com/backlinkoo/content-pipeline/internal/logger"
	"github.com/backlinkoo/content-pipeline/internal/models"
	"github.com/backlinkoo/content-pipeline/internal/pages"
)

type report struct {
	models.RunSummary
	Replacements       int
	LinksReduced       int
	HeadingsRebalanced int
	FAQReordered       int
}

func main() {
	log := logger.New("diversifier").With("run_id", uuid.NewString())
	cfg, err := config.LoadDiversify()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	rep, err := run(ctx, log, cfg)
	if err != nil {
		log.Error("diversify pages", slog.Any("err", err))
		os.Exit(1)
	}
	printReport(os.Stdout, rep)
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Diversify) (report, error) {
	store := pages.NewFS(cfg.Dir, cfg.Ext)
	names, err := store.List()
	if err != nil {
		return report{}, err
	}

	d := diversify.New(diversify.Options{
		PerOccurrence: cfg.PerOccurrence,
		LinkCap:       cfg.LinkCap,
	})
	log.Info("diversifying pages",
		slog.String("dir", cfg.Dir),
		slog.Int("pages", len(names)),
		slog.Bool("per_occurrence", cfg.PerOccurrence),
	)

	var rep report
	rep.RunSummary = pages.Run(ctx, log, store, names, func(doc models.PageDocument) (string, func()) {
		out, stats := d.Page(doc)
		return out, func() {
			rep.Replacements += stats.Replacements
			rep.LinksReduced += stats.LinksReduced
			rep.HeadingsRebalanced += stats.HeadingsRebalanced
			if stats.FAQReordered {
				rep.FAQReordered++
			}
		}
	})

	log.Info("diversify finished",
		slog.Int("scanned", rep.Scanned),
		slog.Int("modified", rep.Modified),
		slog.Int("failed", rep.Failed),
	)
	return rep, nil
}

func printReport(w io.Writer, rep report) {
	fmt.Fprintln(w, "Boilerplate diversification report")
	fmt.Fprintf(w, "  files scanned:        %d\n", rep.Scanned)
	fmt.Fprintf(w, "  files modified:       %d\n", rep.Modified)
	fmt.Fprintf(w, "  replacements applied: %d\n", rep.Replacements)
	fmt.Fprintf(w, "  links reduced:        %d\n", rep.LinksReduced)
	fmt.Fprintf(w, "  headings rebalanced:  %d\n", rep.HeadingsRebalanced)
	fmt.Fprintf(w, "  FAQ sections reordered: %d\n", rep.FAQReordered)
	if rep.Failed > 0 {
		fmt.Fprintf(w, "  failures:             %d\n", rep.Failed)
	}
}
