package diversify

import (
	"regexp"
	"sort"
	"strings"
)

var (
	faqHeadingRe = regexp.MustCompile(`(?s)<h2(?:\s[^>]*)?>\s*FAQ.*?</h2>`)
	nextH2Re     = regexp.MustCompile(`<h2[\s>]`)
	faqItemRe    = regexp.MustCompile(`(?s)<h3(?:\s[^>]*)?>.*?</h3>\s*<p(?:\s[^>]*)?>.*?</p>`)
)

const minFAQItems = 4

// ReorderFAQ shuffles the question blocks of a page's FAQ section. It only
// touches pages with index%7 != 0 whose content mentions FAQ and whose
// section holds more than three question/answer blocks. The order comes
// from FAQOrder, so it is stable across runs.
func ReorderFAQ(content string, index int) (string, bool) {
	if index%7 == 0 || !strings.Contains(content, "FAQ") {
		return content, false
	}

	head := faqHeadingRe.FindStringIndex(content)
	if head == nil {
		return content, false
	}
	start := head[1]
	end := len(content)
	if next := nextH2Re.FindStringIndex(content[start:]); next != nil {
		end = start + next[0]
	}

	section := content[start:end]
	items := faqItemRe.FindAllStringIndex(section, -1)
	if len(items) < minFAQItems {
		return content, false
	}

	order := FAQOrder(index, len(items))
	if isIdentity(order) {
		return content, false
	}

	var b strings.Builder
	b.Grow(len(content))
	b.WriteString(content[:start])
	last := 0
	for slot, span := range items {
		b.WriteString(section[last:span[0]])
		src := items[order[slot]]
		b.WriteString(section[src[0]:src[1]])
		last = span[1]
	}
	b.WriteString(section[last:])
	b.WriteString(content[end:])
	return b.String(), true
}

// FAQOrder returns the block order for a page: positions stably sorted by
// (i*7 + index*11) mod n.
func FAQOrder(index, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	key := func(i int) int { return ModSelector(i*7+index*11, n) }
	sort.SliceStable(order, func(a, b int) bool {
		return key(order[a]) < key(order[b])
	})
	return order
}

func isIdentity(order []int) bool {
	for i, v := range order {
		if i != v {
			return false
		}
	}
	return true
}
