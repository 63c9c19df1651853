package normalizer

import (
	"regexp"
	"strings"
)

var (
	blankLineRe  = regexp.MustCompile(`\n[ \t]*\n`)
	blockStartRe = regexp.MustCompile(`(?i)^<(h[1-6]|p|ul|ol|li|figure|img|picture|blockquote|section|article|table|div|pre|hr)\b`)
	paragraphRe  = regexp.MustCompile(`(?i)<p[\s>]`)
)

// WrapParagraphs wraps every plain segment of s in <p>. Segments are split
// on blank lines, or on single newlines when the text has no blank line.
// Segments that already open with a block-level tag pass through as is.
func WrapParagraphs(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if strings.TrimSpace(s) == "" {
		return ""
	}

	var segments []string
	if blankLineRe.MatchString(s) {
		segments = blankLineRe.Split(s, -1)
	} else {
		segments = strings.Split(s, "\n")
	}

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if blockStartRe.MatchString(seg) {
			out = append(out, seg)
			continue
		}
		out = append(out, "<p>"+seg+"</p>")
	}
	return strings.Join(out, "\n")
}

func hasParagraph(s string) bool {
	return paragraphRe.MatchString(s)
}
