package pages

import (
	"context"
	"log/slog"

	"github.com/backlinkoo/content-pipeline/internal/models"
)

// Transform rewrites one page. It must not keep doc.Content past the call.
// The returned commit, when not nil, runs once the page is settled: the new
// content was written, or nothing changed. It does not run when the write
// fails.
type Transform func(doc models.PageDocument) (out string, commit func())

// Run applies fn to every named page in order. Index is the position in
// names. A page is written back only when its content changed. Read and
// write failures are logged with the page name and the run moves on to the
// next page. Cancelling ctx stops the run before the next page.
func Run(ctx context.Context, log *slog.Logger, store Store, names []string, fn Transform) models.RunSummary {
	var sum models.RunSummary
	for i, name := range names {
		if ctx.Err() != nil {
			log.Warn("run interrupted", slog.Int("remaining", len(names)-i))
			break
		}

		content, err := store.Read(name)
		if err != nil {
			log.Warn("read page", slog.String("page", name), slog.Any("err", err))
			sum.Failed++
			continue
		}
		sum.Scanned++

		out, commit := fn(models.PageDocument{Name: name, Index: i, Content: content})
		if out != content {
			if err := store.Write(name, out); err != nil {
				log.Warn("write page", slog.String("page", name), slog.Any("err", err))
				sum.Failed++
				continue
			}
			sum.Modified++
			log.Debug("page updated", slog.String("page", name))
		}
		if commit != nil {
			commit()
		}
	}
	return sum
}
