package processing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/backlinkoo/content-pipeline/internal/processing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "punctuation", input: "Hello!!!   world", want: "Hello world"},
		{name: "entities", input: "Links &amp; rankings", want: "Links rankings"},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "remove urls", input: "Check https://example.com/a?b=1 for info", want: "Check for info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.CleanText(tt.input))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "Backlinks backlinks anchor anchor anchor the the SEO"
	require.Equal(t, []string{"anchor", "backlinks", "seo"}, processing.ExtractKeywords(text, 3, 3))
	require.Nil(t, processing.ExtractKeywords("", 5, 3))
	require.Nil(t, processing.ExtractKeywords("the and of", 5, 2))
}

func TestExtractKeywordsIgnoresURLWords(t *testing.T) {
	text := "outreach outreach https://example.com/guest-posting anchors"
	require.ElementsMatch(t, []string{"outreach", "anchors"}, processing.ExtractKeywords(text, 5, 3))
}

func TestBuildDocumentID(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	id1 := processing.BuildDocumentID("generator", "link-building-101", ts)
	id2 := processing.BuildDocumentID("generator", "link-building-101", ts.In(time.FixedZone("x", 3600)))
	require.Equal(t, id1, id2)

	_, err := uuid.Parse(id1)
	require.NoError(t, err)

	require.NotEqual(t, id1, processing.BuildDocumentID("generator", "other", ts))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Café Crème: Link Building 101!", want: "cafe-creme-link-building-101"},
		{title: "  --Hello   World--  ", want: "hello-world"},
		{title: "!!!", want: "post"},
		{title: "", want: "post"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			require.Equal(t, tt.want, processing.Slugify(tt.title))
		})
	}

	long := processing.Slugify(strings.Repeat("backlinks ", 20))
	require.LessOrEqual(t, len(long), 80)
	require.False(t, strings.HasSuffix(long, "-"))
}

func TestExtractLinks(t *testing.T) {
	fragment := `<p><a href="https://a.com">a</a><a href="/rel">r</a></p>` +
		`<p><a href="https://a.com">again</a><a href="http://b.org/x">b</a><a>none</a></p>`

	require.Equal(t, []string{"https://a.com", "http://b.org/x"}, processing.ExtractLinks(fragment))
	require.Nil(t, processing.ExtractLinks("<p>no links</p>"))
}

func TestPlainText(t *testing.T) {
	md, err := processing.PlainText(`<h2>Intro</h2><p>Some <strong>bold</strong> text.</p>`)
	require.NoError(t, err)
	require.Contains(t, md, "## Intro")
	require.Contains(t, md, "**bold**")
	require.NotContains(t, md, "<p>")
}

func TestIsDocument(t *testing.T) {
	require.True(t, processing.IsDocument("<!DOCTYPE html><html lang=\"en\"><body></body></html>"))
	require.True(t, processing.IsDocument("<BODY>text</BODY>"))
	require.False(t, processing.IsDocument("<p>fragment</p><bodyguard>"))
}

func TestExtractMainContent(t *testing.T) {
	para := "Link building is the practice of earning hyperlinks from other websites, " +
		"and search engines use those links to discover pages and judge their authority. " +
		"A steady outreach routine, useful resources and honest relationships with editors " +
		"produce links that keep their value for years."
	document := `<html><head><title>Link Building Basics</title></head><body>` +
		`<nav><a href="/">Home</a><a href="/pricing">Pricing</a></nav>` +
		`<article><h1>Link Building Basics</h1><p>` + para + `</p><p>` + para + `</p><p>` + para + `</p></article>` +
		`<footer>Copyright</footer></body></html>`

	title, content, err := processing.ExtractMainContent(document, "https://blog.example.com/link-building")
	require.NoError(t, err)
	require.Equal(t, "Link Building Basics", title)
	require.Contains(t, content, "earning hyperlinks")

	_, _, err = processing.ExtractMainContent(document, "://bad")
	require.Error(t, err)
}
