package normalizer

import (
	"regexp"
	"strings"
)

var (
	fencedCodeRe   = regexp.MustCompile("(?s)```.*?```")
	outputMarkerRe = regexp.MustCompile(`(?is)(?:^|\n)[ \t#*]*(?:clean\s+)?html\s+(?:output|version)\b.*$`)
	titleLineRe    = regexp.MustCompile(`(?i)^\s*(?:\*\*)?[ \t]*title[ \t]*:[ \t]*(.*?)[ \t]*(?:\*\*)?[ \t]*(?:\n|$)`)
	boldRunRe      = regexp.MustCompile(`\*\*[^*\n]+\*\*`)
	htmlBlockRe    = regexp.MustCompile(`(?i)<(?:h2|p|ul|ol|section|article)\b`)
	anyTagRe       = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`)

	mdH3Re = regexp.MustCompile(`(?m)^[ \t]*###[ \t]+(.+?)[ \t]*$`)
	mdH2Re = regexp.MustCompile(`(?m)^[ \t]*##[ \t]+(.+?)[ \t]*$`)

	labelParagraphRe = regexp.MustCompile(`(?i)<p>\s*<strong>\s*([^<:]{1,100}?)\s*:\s*</strong>\s*</p>`)
	titleParagraphRe = regexp.MustCompile(`(?is)<p[^>]*>\s*<strong>\s*title\s*:.*?</strong>\s*</p>`)
	h1ElementRe      = regexp.MustCompile(`(?is)<h1\b[^>]*>.*?</h1\s*>`)
	articleRe        = regexp.MustCompile(`(?is)<article\b[^>]*>.*?</article\s*>`)
	articleTagRe     = regexp.MustCompile(`(?i)</?article\b[^>]*>`)

	mdBoldRe   = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	mdItalicRe = regexp.MustCompile(`(^|[^*\w])\*([^*\s][^*\n]*?)\*([^*\w]|$)`)
)

// stripFencedCode removes ``` delimited blocks with their contents.
func stripFencedCode(s string) string {
	return fencedCodeRe.ReplaceAllString(s, "")
}

// stripOutputMarker cuts a trailing "HTML Output" style section that
// generators append after the article.
func stripOutputMarker(s string) string {
	return outputMarkerRe.ReplaceAllString(s, "")
}

// stripTitleLine removes a leading "Title: ..." line and reports the title
// it carried.
func stripTitleLine(s string) (string, string, bool) {
	m := titleLineRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s, "", false
	}
	title := cleanTitle(s[m[2]:m[3]])
	return s[m[1]:], title, true
}

func hasPlainMarkers(s string, hadTitleLine bool) bool {
	return hadTitleLine || boldRunRe.MatchString(s)
}

// dropPreamble discards plain text in front of the first HTML block.
func dropPreamble(s string) string {
	loc := htmlBlockRe.FindStringIndex(s)
	if loc == nil || loc[0] == 0 {
		return s
	}
	return s[loc[0]:]
}

func hasTag(s string) bool {
	return anyTagRe.MatchString(s)
}

func convertMarkdownHeadings(s string) string {
	s = mdH3Re.ReplaceAllString(s, "<h3>$1</h3>")
	return mdH2Re.ReplaceAllString(s, "<h2>$1</h2>")
}

// promoteLabelParagraphs turns <p><strong>Label:</strong></p> into <h2>Label</h2>.
func promoteLabelParagraphs(s string) string {
	return labelParagraphRe.ReplaceAllString(s, "<h2>$1</h2>")
}

func dropTitleParagraphs(s string) string {
	return titleParagraphRe.ReplaceAllString(s, "")
}

func stripH1(s string) string {
	return h1ElementRe.ReplaceAllString(s, "")
}

// keepLastArticle keeps only the final <article> block when the generator
// echoed earlier drafts, then drops the article tags themselves.
func keepLastArticle(s string) string {
	all := articleRe.FindAllString(s, -1)
	if len(all) > 1 {
		s = all[len(all)-1]
	}
	return articleTagRe.ReplaceAllString(s, "")
}

// convertEmphasis turns **bold** and *italic* spans into tags. The italic
// form needs a non-asterisk, non-word character on both sides so bullet
// markers and runs inside bold are left alone.
func convertEmphasis(s string) string {
	s = mdBoldRe.ReplaceAllString(s, "<strong>$1</strong>")
	// Boundaries are consumed by the match, so adjacent spans need a second pass.
	for i := 0; i < 4; i++ {
		next := mdItalicRe.ReplaceAllString(s, "$1<em>$2</em>$3")
		if next == s {
			break
		}
		s = next
	}
	return s
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*#_ \t")
	return collapseSpaces(s)
}
