package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backlinkoo/content-pipeline/internal/config"
	"github.com/backlinkoo/content-pipeline/internal/logger"
	"github.com/backlinkoo/content-pipeline/internal/media"
	"github.com/backlinkoo/content-pipeline/internal/pages"
)

const slot = `<div class="media"></div>`

func TestRunFillsTargetsInListOrder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".tsx"), []byte(content), 0o644))
	}
	// List order, not directory order, drives the counter.
	write("zeta-guide", slot+slot)
	write("alpha-guide", slot)
	write("backlink-faq", "<p>no media here</p>")
	write("untargeted", slot)

	targets := filepath.Join(dir, "targets.yaml")
	require.NoError(t, os.WriteFile(targets,
		[]byte("pages:\n  - zeta-guide\n  - alpha-guide\n  - backlink-faq\n  - missing-page\n"), 0o644))

	cfg := &config.MediaFill{Pages: config.Pages{Dir: dir, Ext: ".tsx"}, TargetsFile: targets}
	rep, err := run(context.Background(), logger.Discard(), cfg)
	require.NoError(t, err)

	require.Equal(t, 3, rep.Scanned)
	require.Equal(t, 2, rep.Modified)
	require.Equal(t, 1, rep.Failed)
	require.Equal(t, 3, rep.Fixed)
	require.Equal(t, 1, rep.Videos)
	require.Equal(t, []string{"backlink-faq"}, rep.Issues)

	alpha, err := os.ReadFile(filepath.Join(dir, "alpha-guide.tsx"))
	require.NoError(t, err)
	video, _ := media.Element(3)
	require.Equal(t, `<div class="media">`+video+`</div>`, string(alpha))

	untouched, err := os.ReadFile(filepath.Join(dir, "untargeted.tsx"))
	require.NoError(t, err)
	require.Equal(t, slot, string(untouched))

	zeta, err := os.ReadFile(filepath.Join(dir, "zeta-guide.tsx"))
	require.NoError(t, err)
	for _, s := range media.Slots(string(zeta)) {
		require.False(t, s.Empty())
	}
}

type readOnlyPage struct {
	pages.Store
	name string
}

func (s readOnlyPage) Write(name, content string) error {
	if name == s.name {
		return errors.New("permission denied")
	}
	return s.Store.Write(name, content)
}

func TestFillCountsOnlyWrittenPages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tsx"), []byte(slot+slot), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.tsx"), []byte(slot), 0o644))
	store := readOnlyPage{Store: pages.NewFS(dir, ".tsx"), name: "broken"}

	rep := fill(context.Background(), logger.Discard(), store, []string{"broken", "ok"})

	require.Equal(t, 2, rep.Scanned)
	require.Equal(t, 1, rep.Modified)
	require.Equal(t, 1, rep.Failed)
	require.Equal(t, 1, rep.Fixed)
	require.Equal(t, 1, rep.Videos)

	// The failed page still advanced the counter.
	ok, err := os.ReadFile(filepath.Join(dir, "ok.tsx"))
	require.NoError(t, err)
	video, _ := media.Element(3)
	require.Equal(t, `<div class="media">`+video+`</div>`, string(ok))

	broken, err := os.ReadFile(filepath.Join(dir, "broken.tsx"))
	require.NoError(t, err)
	require.Equal(t, slot+slot, string(broken))
}

func TestRunBadTargets(t *testing.T) {
	cfg := &config.MediaFill{Pages: config.Pages{Dir: t.TempDir(), Ext: ".tsx"}, TargetsFile: "/does/not/exist.yaml"}
	_, err := run(context.Background(), logger.Discard(), cfg)
	require.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	rep := report{Fixed: 5, Videos: 1, Issues: []string{"backlink-faq"}}
	rep.Scanned = 110
	printReport(&buf, rep)

	out := buf.String()
	require.Contains(t, out, "files scanned:           110")
	require.Contains(t, out, "empty media divs fixed:  5 (1 videos)")
	require.True(t, strings.Contains(out, "! backlink-faq has no media container"))
}
