package diversify_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/backlinkoo/content-pipeline/internal/diversify"
	"github.com/backlinkoo/content-pipeline/internal/models"
	"github.com/stretchr/testify/require"
)

func testRule(t *testing.T) diversify.Rule {
	t.Helper()
	rule, err := diversify.NewRule("repeat", "Repeated paragraph.", "alt-0", "alt-1", "alt-2", "alt-3")
	require.NoError(t, err)
	return rule
}

func TestNewRuleRequiresAlternatives(t *testing.T) {
	_, err := diversify.NewRule("empty", "text")
	require.Error(t, err)

	_, err = diversify.NewRule("blank", "", "a")
	require.Error(t, err)
}

func TestDefaultRulesShape(t *testing.T) {
	require.Len(t, diversify.DefaultRules, 5)
	for _, r := range diversify.DefaultRules {
		require.Len(t, r.Alternatives, 4, r.Name)
	}
}

func TestModSelector(t *testing.T) {
	require.Equal(t, 0, diversify.ModSelector(0, 4))
	require.Equal(t, 3, diversify.ModSelector(7, 4))
	require.Equal(t, 3, diversify.ModSelector(-1, 4))
	require.Equal(t, 0, diversify.ModSelector(5, 0))
}

func TestSharedIndexForRepeatedMatches(t *testing.T) {
	d := diversify.New(diversify.Options{Rules: []diversify.Rule{testRule(t)}})
	doc := models.PageDocument{Index: 0, Content: "<p>Repeated paragraph.</p><p>Repeated paragraph.</p>"}

	out, stats := d.Page(doc)

	require.Equal(t, "<p>alt-1</p><p>alt-1</p>", out)
	require.Equal(t, 2, stats.Replacements)
}

func TestSingleMatchUsesPageIndex(t *testing.T) {
	d := diversify.New(diversify.Options{Rules: []diversify.Rule{testRule(t)}})

	for index := 0; index < 8; index++ {
		out, _ := d.Page(models.PageDocument{Index: index, Content: "Repeated paragraph."})
		require.Equal(t, fmt.Sprintf("alt-%d", index%4), out)
	}
}

func TestPerOccurrenceRotation(t *testing.T) {
	d := diversify.New(diversify.Options{Rules: []diversify.Rule{testRule(t)}, PerOccurrence: true})
	doc := models.PageDocument{Index: 3, Content: "Repeated paragraph. Repeated paragraph. Repeated paragraph."}

	out, stats := d.Page(doc)

	require.Equal(t, "alt-3 alt-0 alt-1", out)
	require.Equal(t, 3, stats.Replacements)
}

func TestCustomSelector(t *testing.T) {
	always := func(_, n int) int { return n - 1 }
	d := diversify.New(diversify.Options{Rules: []diversify.Rule{testRule(t)}, Select: always})

	out, _ := d.Page(models.PageDocument{Index: 0, Content: "Repeated paragraph."})
	require.Equal(t, "alt-3", out)
}

func TestSecondPassIsNoop(t *testing.T) {
	d := diversify.New(diversify.Options{})
	content := "<p>Backlinks remain one of the most important ranking factors in Google's algorithm.</p>" +
		"<p>Focus on quality over quantity when building links to your website.</p>"

	first, stats := d.Page(models.PageDocument{Index: 4, Content: content})
	require.Equal(t, 2, stats.Replacements)
	require.NotEqual(t, content, first)

	second, stats := d.Page(models.PageDocument{Index: 4, Content: first})
	require.Zero(t, stats.Replacements)
	require.Equal(t, first, second)
}

func TestCapLinksKeepsFirstThree(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, `<a href="/senuke" class="l%d">SEnuke %d</a> `, i, i)
	}
	b.WriteString(`<a href="/xrumer">XRumer</a>`)

	out, reduced := diversify.CapLinks(b.String(), diversify.CappedHrefs, 3)

	require.Equal(t, 2, reduced)
	require.Equal(t, 3, diversify.CountLinks(out, "/senuke"))
	require.Equal(t, 1, diversify.CountLinks(out, "/xrumer"))
	for i := 1; i <= 3; i++ {
		require.Contains(t, out, fmt.Sprintf(`<a href="/senuke" class="l%d">SEnuke %d</a>`, i, i))
	}
	require.Contains(t, out, "SEnuke 4 SEnuke 5 ")
}

func TestCapLinksAnyTagAndSelfClosing(t *testing.T) {
	in := strings.Repeat(`<Link href="/senuke">SEnuke</Link> `, 5) +
		strings.Repeat(`<a href="/xrumer"/> `, 5) +
		`<Link className="nav" href='/senuke' >Last</Link>`

	out, reduced := diversify.CapLinks(in, diversify.CappedHrefs, 3)

	require.Equal(t, 5, reduced)
	require.Equal(t, 3, diversify.CountLinks(out, "/senuke"))
	require.Equal(t, 3, diversify.CountLinks(out, "/xrumer"))
	require.Equal(t,
		strings.Repeat(`<Link href="/senuke">SEnuke</Link> `, 3)+
			"SEnuke SEnuke "+
			strings.Repeat(`<a href="/xrumer"/> `, 3)+"  Last",
		out)
}

func TestCountLinksIgnoresOtherAttributes(t *testing.T) {
	in := `<div data-href="/senuke">x</div><a href="/senuke-pro">y</a><Button href="/senuke">z</Button>`
	require.Equal(t, 1, diversify.CountLinks(in, "/senuke"))
}

func TestCapLinksUnderLimit(t *testing.T) {
	in := `<a href="/senuke">one</a><a href="/senuke">two</a>`
	out, reduced := diversify.CapLinks(in, diversify.CappedHrefs, 3)
	require.Zero(t, reduced)
	require.Equal(t, in, out)
}

func TestRebalanceHeadings(t *testing.T) {
	h2s := "<h2>a</h2><h2>b</h2><h2 id=\"c\">c</h2><h2>d</h2><h2>e</h2><h2>f</h2>"

	out, n := diversify.RebalanceHeadings(h2s, 6)
	require.Equal(t, 2, n)
	require.Equal(t, "<h2>a</h2><h2>b</h2><h3 id=\"c\">c</h3><h2>d</h2><h2>e</h2><h3>f</h3>", out)

	h3s := "<h3>1</h3><h3>2</h3><h3>3</h3><h3>4</h3><h3>5</h3>"
	out, n = diversify.RebalanceHeadings(h3s, 7)
	require.Equal(t, 1, n)
	require.Equal(t, "<h3>1</h3><h3>2</h3><h3>3</h3><h2>4</h2><h3>5</h3>", out)

	for _, index := range []int{0, 3, 4, 5, 8, 9} {
		out, n = diversify.RebalanceHeadings(h2s+h3s, index)
		require.Zero(t, n)
		require.Equal(t, h2s+h3s, out)
	}
}

func faqPage(items int) string {
	var b strings.Builder
	b.WriteString("<h2>Intro</h2><p>hello</p><h2>FAQ</h2>\n")
	for i := 0; i < items; i++ {
		fmt.Fprintf(&b, "<h3>Question %d?</h3>\n<p>Answer %d.</p>\n", i, i)
	}
	b.WriteString("<h2>Next</h2><p>tail</p>")
	return b.String()
}

func TestFAQOrder(t *testing.T) {
	require.Equal(t, []int{3, 2, 1, 0}, diversify.FAQOrder(1, 4))
	require.Equal(t, []int{2, 1, 0, 3}, diversify.FAQOrder(2, 4))
	require.Equal(t, diversify.FAQOrder(5, 6), diversify.FAQOrder(5, 6))
}

func TestReorderFAQ(t *testing.T) {
	page := faqPage(4)

	out, ok := diversify.ReorderFAQ(page, 1)
	require.True(t, ok)

	require.True(t, strings.HasPrefix(out, "<h2>Intro</h2><p>hello</p><h2>FAQ</h2>\n<h3>Question 3?</h3>\n<p>Answer 3.</p>"))
	require.True(t, strings.HasSuffix(out, "<h2>Next</h2><p>tail</p>"))
	require.Less(t, strings.Index(out, "Question 2?"), strings.Index(out, "Question 1?"))
	require.Equal(t, len(page), len(out))
}

func TestReorderFAQSkips(t *testing.T) {
	tests := []struct {
		name    string
		content string
		index   int
	}{
		{name: "index multiple of seven", content: faqPage(5), index: 14},
		{name: "too few items", content: faqPage(3), index: 1},
		{name: "no faq", content: "<h2>Intro</h2><h3>Q?</h3><p>A</p>", index: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := diversify.ReorderFAQ(tt.content, tt.index)
			require.False(t, ok)
			require.Equal(t, tt.content, out)
		})
	}
}

func TestPageRunsAllStages(t *testing.T) {
	content := faqPage(4) +
		strings.Repeat(`<a href="/xrumer">x</a>`, 4) +
		"<p>Get started today and watch your rankings climb.</p>"

	d := diversify.New(diversify.Options{})
	out, stats := d.Page(models.PageDocument{Name: "xrumer-review", Index: 1, Content: content})

	require.Equal(t, 1, stats.Replacements)
	require.Equal(t, 1, stats.LinksReduced)
	require.True(t, stats.FAQReordered)
	require.Equal(t, 1, stats.HeadingsRebalanced)
	require.Contains(t, out, diversify.DefaultRules[4].Alternatives[1])
	require.Contains(t, out, "<h3>Next</h3>")
}
