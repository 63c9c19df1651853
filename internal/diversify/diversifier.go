// Package diversify rewrites boilerplate that repeats across the generated
// marketing pages: known paragraphs get rotated phrasings, internal links to
// the tool pages are capped, heading levels are varied and FAQ items are
// reordered. Every decision is a pure function of the page content and its
// index, so a re-run over an unchanged, identically ordered corpus makes the
// same choices.
package diversify

import (
	"github.com/backlinkoo/content-pipeline/internal/models"
)

// CappedHrefs are the internal links limited per page.
var CappedHrefs = []string{"/senuke", "/xrumer"}

// DefaultLinkCap is how many occurrences of each capped link a page keeps.
const DefaultLinkCap = 3

// Options tune a Diversifier.
type Options struct {
	Rules []Rule
	// Select picks an alternative for a seed. Defaults to ModSelector.
	Select Selector
	// PerOccurrence gives the i-th match of a rule the alternative for
	// pageIndex+i instead of one shared alternative for every match.
	PerOccurrence bool
	LinkCap       int
}

// PageStats counts what one page run changed.
type PageStats struct {
	Replacements       int
	LinksReduced       int
	HeadingsRebalanced int
	FAQReordered       bool
}

// Diversifier applies every stage to a page.
type Diversifier struct {
	opts Options
}

// New returns a Diversifier. Zero-valued options fall back to the defaults.
func New(opts Options) *Diversifier {
	if opts.Rules == nil {
		opts.Rules = DefaultRules
	}
	if opts.Select == nil {
		opts.Select = ModSelector
	}
	if opts.LinkCap <= 0 {
		opts.LinkCap = DefaultLinkCap
	}
	return &Diversifier{opts: opts}
}

// Page runs the stages over doc in order: boilerplate rules, link cap, FAQ
// reorder, heading rebalance. It returns the new content.
func (d *Diversifier) Page(doc models.PageDocument) (string, PageStats) {
	var stats PageStats
	content := doc.Content

	for _, rule := range d.opts.Rules {
		var n int
		content, n = d.applyRule(content, rule, doc.Index)
		stats.Replacements += n
	}

	content, stats.LinksReduced = CapLinks(content, CappedHrefs, d.opts.LinkCap)
	content, stats.FAQReordered = ReorderFAQ(content, doc.Index)
	content, stats.HeadingsRebalanced = RebalanceHeadings(content, doc.Index)

	return content, stats
}

// applyRule replaces every match of rule in content. In the default mode the
// alternative is chosen once from pageIndex plus the ordinal of the last
// match, and all matches share it; that keeps the historical output but
// leaves identical text behind when a rule matches more than once.
func (d *Diversifier) applyRule(content string, rule Rule, pageIndex int) (string, int) {
	matches := rule.Pattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}
	n := len(rule.Alternatives)

	if !d.opts.PerOccurrence {
		alt := rule.Alternatives[d.opts.Select(pageIndex+len(matches)-1, n)]
		return rule.Pattern.ReplaceAllLiteralString(content, alt), len(matches)
	}

	i := 0
	out := rule.Pattern.ReplaceAllStringFunc(content, func(string) string {
		alt := rule.Alternatives[d.opts.Select(pageIndex+i, n)]
		i++
		return alt
	})
	return out, len(matches)
}
