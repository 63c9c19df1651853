package diversify

import (
	"regexp"
	"strings"
)

// linkTagPattern matches any opening tag, of any name and possibly
// self-closing, whose href attribute is exactly href.
func linkTagPattern(href string) *regexp.Regexp {
	return regexp.MustCompile(`<([A-Za-z][\w.:-]*)\s(?:[^<>]*?\s)?href=["']` + regexp.QuoteMeta(href) + `["'][^<>]*>`)
}

// linkElement is the byte span of one linking element and of the text it
// wraps. Self-closing elements wrap nothing.
type linkElement struct {
	start, end           int
	innerStart, innerEnd int
}

func linkElements(content string, re *regexp.Regexp) []linkElement {
	var els []linkElement
	for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
		el := linkElement{start: m[0], end: m[1], innerStart: m[1], innerEnd: m[1]}
		if !strings.HasSuffix(content[m[0]:m[1]], "/>") {
			closing := "</" + content[m[2]:m[3]] + ">"
			if i := strings.Index(content[m[1]:], closing); i >= 0 {
				el.innerEnd = m[1] + i
				el.end = el.innerEnd + len(closing)
			}
		}
		els = append(els, el)
	}
	return els
}

// CapLinks keeps the first limit elements linking to each href verbatim and
// unlinks the rest. An unlinked element leaves its text in place; a
// self-closing one is removed. It returns the new content and how many
// elements were unlinked.
func CapLinks(content string, hrefs []string, limit int) (string, int) {
	reduced := 0
	for _, href := range hrefs {
		var n int
		content, n = capLink(content, linkTagPattern(href), limit)
		reduced += n
	}
	return content, reduced
}

func capLink(content string, re *regexp.Regexp, limit int) (string, int) {
	els := linkElements(content, re)
	if len(els) <= limit {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, el := range els[limit:] {
		// Already consumed by an earlier element's unclosed span.
		if el.start < last {
			continue
		}
		b.WriteString(content[last:el.start])
		b.WriteString(content[el.innerStart:el.innerEnd])
		last = el.end
	}
	b.WriteString(content[last:])
	return b.String(), len(els) - limit
}

// CountLinks reports how many tags in content carry href.
func CountLinks(content, href string) int {
	return len(linkTagPattern(href).FindAllStringIndex(content, -1))
}
