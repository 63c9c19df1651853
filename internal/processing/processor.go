package processing

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	urlRegex    = regexp.MustCompile(`https?://[^\s<>"']+`)
	slugRegex   = regexp.MustCompile(`[^a-z0-9]+`)
	documentRe  = regexp.MustCompile(`(?i)<html[\s>]|<body[\s>]`)
)

var postNamespace = uuid.MustParse("5f0c7a4e-9a53-4c39-8f64-1b2f6cf0d0a1")

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "to": {}, "in": {},
	"on": {}, "for": {}, "of": {}, "with": {}, "at": {}, "by": {}, "from": {}, "as": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "you": {}, "your": {}, "our": {},
	"we": {}, "they": {}, "their": {}, "can": {}, "will": {}, "not": {}, "more": {},
	"most": {}, "how": {}, "what": {}, "when": {}, "why": {}, "into": {}, "than": {},
	"also": {}, "have": {}, "has": {}, "all": {}, "any": {}, "each": {}, "about": {},
}

// CleanText strips HTML entities, URLs and punctuation and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = urlRegex.ReplaceAllString(decoded, " ")
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// ExtractKeywords returns the most frequent words that are not stop-words,
// ties broken alphabetically.
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}
	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}
	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	n := limit
	if n <= 0 || n > len(pairs) {
		n = len(pairs)
	}
	keywords := make([]string, 0, n)
	for _, p := range pairs[:n] {
		keywords = append(keywords, p.word)
	}
	return keywords
}

// BuildDocumentID derives a stable UUID from the post source, slug and
// timestamp so redelivered messages overwrite the same document.
func BuildDocumentID(source, slug string, ts time.Time) string {
	name := source + "|" + slug + "|" + ts.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(postNamespace, []byte(name)).String()
}

// Slugify turns a title into a lowercase ASCII URL segment.
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	slug := slugRegex.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	if slug == "" {
		return "post"
	}
	return slug
}

// ExtractLinks collects the distinct absolute http(s) hrefs of an HTML
// fragment in document order.
func ExtractLinks(fragment string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}

// PlainText renders normalized article HTML as Markdown for the search text
// field.
func PlainText(fragment string) (string, error) {
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// IsDocument reports whether content looks like a full HTML page rather
// than an article fragment.
func IsDocument(content string) bool {
	return documentRe.MatchString(content)
}

// ExtractMainContent pulls the readable article out of a full scraped page.
// It returns the page title and the article HTML.
func ExtractMainContent(document, pageURL string) (string, string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("parse url: %w", err)
	}
	article, err := readability.FromReader(strings.NewReader(document), parsed)
	if err != nil {
		return "", "", fmt.Errorf("readability: %w", err)
	}
	content := strings.TrimSpace(article.Content)
	if content == "" {
		return "", "", fmt.Errorf("readability: no content found")
	}
	return strings.TrimSpace(article.Title), content, nil
}
