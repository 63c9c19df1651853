package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const imgSizes = "(max-width: 768px) 100vw, 768px"

var (
	linkTokenRe = regexp.MustCompile(`\[([^\]\n]+)\]\(((?:https?://|/)[^\s)]*)\)|https?://[^\s<>"'\]\[()]+`)

	// Paragraphs holding these are content blocks, never headings.
	nonHeadingSelector = "img, picture, figure, video, iframe, ul, ol, li, table"
	noLinkifyAncestors = map[atom.Atom]bool{atom.A: true, atom.Code: true, atom.Pre: true, atom.Script: true, atom.Style: true}
)

type domOptions struct {
	title     string
	structure bool
}

// domPass runs the tree-based steps over a sanitized body fragment. With
// structure set it also drops a leading paragraph repeating the title,
// promotes heading-like paragraphs and enhances images; linkification
// always runs.
func domPass(body string, opts domOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse body: %w", err)
	}
	root := doc.Find("body")

	if opts.structure {
		dropTitleParagraph(root, opts.title)
		promoteHeadings(root)
		enhanceImages(root)
	}
	for _, n := range root.Nodes {
		linkify(n)
	}

	out, err := root.Html()
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func dropTitleParagraph(root *goquery.Selection, title string) {
	first := root.Find("p").First()
	if first.Length() == 0 {
		return
	}
	if sameTitle(first.Text(), title) {
		first.Remove()
	}
}

func promoteHeadings(root *goquery.Selection) {
	root.Find("p").Each(func(_ int, p *goquery.Selection) {
		if p.Find(nonHeadingSelector).Length() > 0 {
			return
		}
		text := collapseSpaces(p.Text())
		if !looksLikeHeading(text) {
			return
		}
		text = strings.TrimRight(text, ":.")
		p.ReplaceWithNodes(elementWithText(atom.H2, strings.TrimSpace(text)))
	})
}

// looksLikeHeading: 8 to 120 characters, at most 16 words, and either ends
// in ':' or '?', is made of capitalized words only, or has more than 60%
// capitalized words.
func looksLikeHeading(text string) bool {
	n := len([]rune(text))
	if n < 8 || n > 120 {
		return false
	}
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 16 {
		return false
	}
	if strings.HasSuffix(text, ":") || strings.HasSuffix(text, "?") {
		return true
	}
	capitalized := 0
	for _, w := range words {
		r := []rune(w)
		if unicode.IsUpper(r[0]) {
			capitalized++
		}
	}
	if capitalized == len(words) {
		return true
	}
	return float64(capitalized)/float64(len(words)) > 0.6
}

func enhanceImages(root *goquery.Selection) {
	defaults := [][2]string{
		{"loading", "lazy"},
		{"decoding", "async"},
		{"referrerpolicy", "no-referrer"},
		{"sizes", imgSizes},
	}
	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, kv := range defaults {
			if _, ok := img.Attr(kv[0]); !ok {
				img.SetAttr(kv[0], kv[1])
			}
		}
	})
}

// linkify rewrites [text](url) and bare http(s) URLs found in text nodes
// into anchors. Text already inside a link, code or pre is skipped, which
// also keeps URLs inside attribute values untouched.
func linkify(n *html.Node) {
	if n.Type == html.ElementNode && noLinkifyAncestors[n.DataAtom] {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode {
			linkifyText(c)
		} else {
			linkify(c)
		}
		c = next
	}
}

func linkifyText(n *html.Node) {
	text := n.Data
	matches := linkTokenRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return
	}

	parent := n.Parent
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		var label, href string
		if m[2] >= 0 {
			label, href = text[m[2]:m[3]], text[m[4]:m[5]]
		} else {
			if start > 0 && !urlBoundary(text[:start]) {
				continue
			}
			href = strings.TrimRight(text[start:end], ".,;:!?")
			end = start + len(href)
			label = href
		}
		if start > last {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[last:start]}, n)
		}
		parent.InsertBefore(anchor(href, label), n)
		last = end
	}
	if last == 0 {
		return
	}
	if last < len(text) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[last:]}, n)
	}
	parent.RemoveChild(n)
}

// urlBoundary reports whether a bare URL may start right after prefix.
func urlBoundary(prefix string) bool {
	r := []rune(prefix)
	prev := r[len(r)-1]
	if prev == '"' || prev == '\'' || prev == '=' || prev == '/' {
		return false
	}
	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev) && prev != '_'
}

func anchor(href, label string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "href", Val: href},
			{Key: "rel", Val: "noopener"},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	return a
}

func elementWithText(a atom.Atom, text string) *html.Node {
	el := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return el
}
