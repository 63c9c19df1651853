package diversify

import (
	"errors"
	"fmt"
	"regexp"
)

// Rule is a known repeated paragraph and the phrasings that replace it.
type Rule struct {
	Name         string
	Pattern      *regexp.Regexp
	Alternatives []string
}

// Selector maps a seed onto an index in [0, n).
type Selector func(seed, n int) int

// ModSelector is the default selection: seed mod n.
func ModSelector(seed, n int) int {
	if n <= 0 {
		return 0
	}
	idx := seed % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// NewRule builds a rule matching the literal paragraph text.
func NewRule(name, paragraph string, alternatives ...string) (Rule, error) {
	if paragraph == "" {
		return Rule{}, fmt.Errorf("rule %q: empty paragraph", name)
	}
	if len(alternatives) == 0 {
		return Rule{}, errors.New("rule " + name + ": no alternatives")
	}
	return Rule{
		Name:         name,
		Pattern:      regexp.MustCompile(regexp.QuoteMeta(paragraph)),
		Alternatives: alternatives,
	}, nil
}

func mustRule(name, paragraph string, alternatives ...string) Rule {
	r, err := NewRule(name, paragraph, alternatives...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRules are the five boilerplate paragraphs repeated across the
// generated tool and service pages.
var DefaultRules = []Rule{
	mustRule("backlinks-matter",
		"Backlinks remain one of the most important ranking factors in Google's algorithm.",
		"Search engines still treat quality backlinks as a core signal when deciding which pages deserve to rank.",
		"Links from trusted sites continue to carry real weight in how Google orders its results.",
		"Earning relevant inbound links is still among the strongest levers you have for organic visibility.",
		"Google's ranking systems keep leaning on backlinks as evidence that a page is worth recommending.",
	),
	mustRule("quality-over-quantity",
		"Focus on quality over quantity when building links to your website.",
		"A handful of authoritative links will outperform hundreds of weak ones.",
		"Prioritize relevance and authority instead of chasing raw link counts.",
		"One editorial link from a respected site is worth more than a pile of low-value placements.",
		"Link volume matters far less than where those links come from.",
	),
	mustRule("white-hat-cta",
		"Backlinkoo provides safe, white-hat link building services that deliver real results.",
		"Backlinkoo builds links the sustainable way, with outreach and placements that hold up over time.",
		"With Backlinkoo you get manual, guideline-friendly link building focused on measurable growth.",
		"Backlinkoo's team secures contextual links on real sites, so your rankings grow without shortcuts.",
		"Our link building at Backlinkoo sticks to proven, penalty-safe methods that move the needle.",
	),
	mustRule("automation-risk",
		"Automated link building tools can put your website at risk of Google penalties.",
		"Mass-automation software tends to leave footprints that search engines are quick to spot.",
		"Tools that blast links automatically often trigger manual actions or algorithmic demotions.",
		"Relying on automated link blasts is a common path to a penalty and lost traffic.",
		"Automated submissions rarely survive modern spam detection and can drag a site down with them.",
	),
	mustRule("get-started",
		"Get started today and watch your rankings climb.",
		"Start your first campaign now and track the gains week by week.",
		"Launch a campaign today and see the difference in your search visibility.",
		"Begin building authority now and let the results speak for themselves.",
		"Kick off your link building today and follow your progress in the dashboard.",
	),
}
