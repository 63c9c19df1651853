package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	h1TextRe        = regexp.MustCompile(`(?is)<h1\b[^>]*>(.*?)</h1\s*>`)
	boldTitleRe     = regexp.MustCompile(`(?i)\*\*\s*title\s*:\s*([^*\n]+?)\s*\*\*`)
	scriptBlockRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleBlockRe    = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	fragmentSplitRe = regexp.MustCompile(`[.!?\n]+`)
	bareURLRe       = regexp.MustCompile(`https?://\S+`)
	markupTokenRe   = regexp.MustCompile(`(?i)\b(?:class|classname|itemscope|itemprop|itemtype|href|src|srcset|width|height|style|alt|rel|data-[a-z-]+)\b|[=<>{}]`)
	spacesRe        = regexp.MustCompile(`\s+`)
)

const (
	minTitleLen   = 10
	maxTitleLen   = 160
	minTitleWords = 3
	fallbackTitle = "Untitled"
)

// extractTitle picks a title in precedence order: <h1> text, a
// **Title: ...** marker (or the Title: line already stripped), the
// caller-supplied title, then the first sentence-like fragment that looks
// like prose.
func extractTitle(s, markerTitle, current string) string {
	if m := h1TextRe.FindStringSubmatch(s); m != nil {
		if t := textOf(m[1]); t != "" {
			return t
		}
	}
	if markerTitle != "" {
		return markerTitle
	}
	if m := boldTitleRe.FindStringSubmatch(s); m != nil {
		if t := cleanTitle(m[1]); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(current); t != "" {
		return collapseSpaces(t)
	}
	if t := fragmentTitle(s); t != "" {
		return t
	}
	return fallbackTitle
}

// fragmentTitle scans sentence-like fragments for something that reads as
// a title rather than a stray attribute or URL.
func fragmentTitle(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, " ")
	s = styleBlockRe.ReplaceAllString(s, " ")
	for _, frag := range fragmentSplitRe.Split(s, -1) {
		frag = textOf(frag)
		frag = collapseSpaces(bareURLRe.ReplaceAllString(frag, " "))
		frag = strings.Trim(frag, "*#_-:; ")
		if isTitleLike(frag) {
			return frag
		}
	}
	return ""
}

func isTitleLike(s string) bool {
	n := len([]rune(s))
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	if !strings.ContainsFunc(s, unicode.IsLetter) {
		return false
	}
	if len(strings.Fields(s)) < minTitleWords {
		return false
	}
	return !markupTokenRe.MatchString(s)
}

// textOf strips tags, decodes entities and squeezes whitespace.
func textOf(fragment string) string {
	return collapseSpaces(html.UnescapeString(anyTagRe.ReplaceAllString(fragment, " ")))
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// titleKey folds s for the case and punctuation insensitive title compare.
func titleKey(s string) string {
	s = norm.NFKC.String(strings.ToLower(textOf(s)))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sameTitle(a, b string) bool {
	ka := titleKey(a)
	return ka != "" && ka == titleKey(b)
}
