package pages_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backlinkoo/content-pipeline/internal/logger"
	"github.com/backlinkoo/content-pipeline/internal/models"
	"github.com/backlinkoo/content-pipeline/internal/pages"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func TestFSList(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "zeta.tsx", "z")
	writePage(t, dir, "alpha.tsx", "a")
	writePage(t, dir, "notes.md", "n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.tsx"), 0o755))

	names, err := pages.NewFS(dir, "tsx").List()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "zeta"}, names)

	_, err = pages.NewFS(filepath.Join(dir, "missing"), ".tsx").List()
	require.Error(t, err)
}

func TestFSReadWrite(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home.tsx", "old")
	store := pages.NewFS(dir, ".tsx")

	content, err := store.Read("home")
	require.NoError(t, err)
	require.Equal(t, "old", content)

	require.NoError(t, store.Write("home", "new"))
	data, err := os.ReadFile(filepath.Join(dir, "home.tsx"))
	require.NoError(t, err)
	require.Equal(t, "new", string(data))

	_, err = store.Read("absent")
	require.ErrorIs(t, err, pages.ErrNotFound)
	require.ErrorIs(t, store.Write("absent", "x"), pages.ErrNotFound)
}

type flakyStore struct {
	pages.Store
	failWrite string
}

func (s flakyStore) Write(name, content string) error {
	if name == s.failWrite {
		return errors.New("disk full")
	}
	return s.Store.Write(name, content)
}

func TestRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "a.tsx", "page a")
	writePage(t, dir, "b.tsx", "page b")
	writePage(t, dir, "c.tsx", "unchanged")
	writePage(t, dir, "d.tsx", "page d")
	store := flakyStore{Store: pages.NewFS(dir, ".tsx"), failWrite: "d"}

	var seen []models.PageDocument
	var settled []string
	upper := func(doc models.PageDocument) (string, func()) {
		seen = append(seen, doc)
		commit := func() { settled = append(settled, doc.Name) }
		if strings.HasPrefix(doc.Content, "page") {
			return strings.ToUpper(doc.Content), commit
		}
		return doc.Content, commit
	}

	names := []string{"a", "missing", "b", "c", "d"}
	sum := pages.Run(context.Background(), logger.Discard(), store, names, upper)

	require.Equal(t, models.RunSummary{Scanned: 4, Modified: 2, Failed: 2}, sum)
	require.Len(t, seen, 4)
	// d failed to write, so it never settles.
	require.Equal(t, []string{"a", "b", "c"}, settled)
	require.Equal(t, 0, seen[0].Index)
	require.Equal(t, 2, seen[1].Index)
	require.Equal(t, "b", seen[1].Name)

	got, err := store.Read("b")
	require.NoError(t, err)
	require.Equal(t, "PAGE B", got)
	got, err = store.Read("d")
	require.NoError(t, err)
	require.Equal(t, "page d", got)
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "a.tsx", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := pages.Run(ctx, logger.Discard(), pages.NewFS(dir, ".tsx"), []string{"a"}, func(doc models.PageDocument) (string, func()) {
		t.Fatal("transform called after cancel")
		return doc.Content, nil
	})
	require.Zero(t, sum.Scanned)
}
