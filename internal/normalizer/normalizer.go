// Package normalizer turns loosely structured generated or scraped post
// content (Markdown markers, "Title:" prefixes, partial HTML) into one
// sanitized article document with a separate title.
//
// Normalize never fails: anything that goes wrong on the structured path
// falls back to escaping the raw input, so the caller always gets
// renderable HTML. It holds no shared mutable state and is safe to call
// from many goroutines.
package normalizer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const (
	contentClass = "article-content"
	emptyBody    = "<p>No content</p>"
)

// Article is a normalized post.
type Article struct {
	Title string
	// Body is the sanitized inner body, without the article shell.
	Body string
	// HTML is the complete <article> document.
	HTML string
}

// Normalize converts raw content into an Article. currentTitle is used when
// the content carries no explicit title of its own.
func Normalize(currentTitle, raw string) (art Article) {
	defer func() {
		if r := recover(); r != nil {
			art = fallback(currentTitle, raw)
		}
	}()

	a, err := normalize(currentTitle, raw)
	if err != nil {
		return fallback(currentTitle, raw)
	}
	return a
}

func normalize(currentTitle, raw string) (Article, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = stripFencedCode(text)
	text = stripOutputMarker(text)

	text, markerTitle, hadTitleLine := stripTitleLine(text)
	title := extractTitle(text, markerTitle, currentTitle)

	if hasPlainMarkers(text, hadTitleLine) {
		text = dropPreamble(text)
	}

	var (
		body string
		err  error
	)
	if hasTag(text) {
		body, err = htmlBody(text, title)
	} else {
		body, err = plainBody(text, title)
	}
	if err != nil {
		return Article{}, err
	}
	body = stripScriptScheme(body)
	if body == "" {
		body = emptyBody
	}

	return Article{Title: title, Body: body, HTML: shell(title, body)}, nil
}

func htmlBody(text, title string) (string, error) {
	text = convertMarkdownHeadings(text)
	text = dropTitleParagraphs(text)
	text = promoteLabelParagraphs(text)
	text = stripH1(text)
	text = keepLastArticle(text)
	text = convertEmphasis(text)
	text = Sanitize(text)

	if !hasParagraph(text) {
		text = WrapParagraphs(text)
	}

	body, err := domPass(text, domOptions{title: title, structure: true})
	if err != nil {
		return "", fmt.Errorf("html body: %w", err)
	}
	return body, nil
}

func plainBody(text, title string) (string, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(out) == 0 && line == strings.TrimSpace(title) {
			continue
		}
		out = append(out, "<p>"+html.EscapeString(line)+"</p>")
	}
	if len(out) == 0 {
		return "", nil
	}

	body, err := domPass(strings.Join(out, "\n"), domOptions{title: title})
	if err != nil {
		return "", fmt.Errorf("plain body: %w", err)
	}
	return body, nil
}

// fallback is the last-resort path: escape everything, wrap, sanitize.
func fallback(currentTitle, raw string) Article {
	title := collapseSpaces(currentTitle)
	if title == "" {
		title = fallbackTitle
	}
	body := Sanitize(WrapParagraphs(html.EscapeString(raw)))
	if strings.TrimSpace(body) == "" {
		body = emptyBody
	}
	return Article{Title: title, Body: body, HTML: body}
}

func shell(title, body string) string {
	var b strings.Builder
	b.Grow(len(body) + len(title) + 64)
	b.WriteString("<article><h1>")
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</h1><div class="`)
	b.WriteString(contentClass)
	b.WriteString(`">`)
	b.WriteString(body)
	b.WriteString("</div></article>")
	return b.String()
}
