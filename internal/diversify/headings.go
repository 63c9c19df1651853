package diversify

import "regexp"

var (
	h2Re = regexp.MustCompile(`(?s)<h2(?:\s[^>]*)?>.*?</h2>`)
	h3Re = regexp.MustCompile(`(?s)<h3(?:\s[^>]*)?>.*?</h3>`)
)

// RebalanceHeadings varies heading levels on two fifths of the corpus. On
// pages with index%5 == 1 every third <h2> becomes an <h3>; with
// index%5 == 2 every fourth <h3> becomes an <h2>. Positions are 1-indexed in
// document order.
func RebalanceHeadings(content string, index int) (string, int) {
	switch index % 5 {
	case 1:
		return retag(content, h2Re, 3, "h3")
	case 2:
		return retag(content, h3Re, 4, "h2")
	default:
		return content, 0
	}
}

// retag renames every nth heading matched by re to tag.
func retag(content string, re *regexp.Regexp, every int, tag string) (string, int) {
	pos, changed := 0, 0
	out := re.ReplaceAllStringFunc(content, func(m string) string {
		pos++
		if pos%every != 0 {
			return m
		}
		changed++
		// m is "<hN" + attrs/body + "</hN>".
		return "<" + tag + m[3:len(m)-5] + "</" + tag + ">"
	})
	return out, changed
}
