package normalizer

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var javascriptRe = regexp.MustCompile(`(?i)javascript\s*:`)

// policy is safe for concurrent use once built.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowStandardAttributes()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()

	p.AllowElements(
		"article", "section", "div", "span", "p", "br", "hr",
		"h2", "h3", "h4", "h5", "h6",
		"strong", "b", "em", "i", "u", "s", "mark", "small", "sub", "sup",
		"blockquote", "q", "cite", "code", "pre", "kbd",
		"figure", "figcaption", "picture",
	)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
	p.AllowImages()
	p.AllowAttrs("loading", "decoding", "referrerpolicy", "sizes", "srcset").OnElements("img")
	p.AllowLists()
	p.AllowTables()

	// script and style are skipped by bluemonday already; iframe is listed so
	// that no embed fallback text leaks into the body.
	p.SkipElementsContent("script", "style", "iframe", "noscript", "object")
	return p
}

// Sanitize drops script, style and iframe elements with their contents,
// every on* handler attribute, unsafe URL schemes and any literal
// "javascript:" left in the text.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return stripScriptScheme(policy.Sanitize(s))
}

// stripScriptScheme removes "javascript:" repeatedly until the text stops
// changing.
func stripScriptScheme(s string) string {
	for {
		out := javascriptRe.ReplaceAllString(s, "")
		if out == s {
			return out
		}
		s = out
	}
}
