// Package media guarantees that every media placeholder on the curated
// landing pages shows an image or a video.
//
// Fills are counted across the whole run: every third fill is a video and
// the rotation position depends on how many slots earlier pages consumed.
// The counter is passed in and returned explicitly so that ordering
// dependency stays visible.
package media

import (
	"fmt"
	"regexp"
	"strings"
)

// ImageURLs and VideoURLs are the fixed rotations used to fill slots.
var (
	ImageURLs = []string{
		"https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=1200&q=80",
		"https://images.unsplash.com/photo-1432888622747-4eb9a8efeb07?w=1200&q=80",
		"https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=1200&q=80",
		"https://images.unsplash.com/photo-1504868584819-f8e8b4b6d7e3?w=1200&q=80",
		"https://images.unsplash.com/photo-1553877522-43269d4ea984?w=1200&q=80",
		"https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=1200&q=80",
		"https://images.unsplash.com/photo-1542744173-8e7e53415bb0?w=1200&q=80",
		"https://images.unsplash.com/photo-1557804506-669a67965ba0?w=1200&q=80",
		"https://images.unsplash.com/photo-1519389950473-47ba0277781c?w=1200&q=80",
		"https://images.unsplash.com/photo-1522202176988-66273c2fd55f?w=1200&q=80",
	}
	VideoURLs = []string{
		"https://www.youtube.com/embed/6McePZz4XZM",
		"https://www.youtube.com/embed/nnnyaJmCGWo",
	}
)

const videoEvery = 3

var (
	slotRe     = regexp.MustCompile(`(?s)<div class="media">(.*?)</div>`)
	slotOpen   = `<div class="media">`
	mediaTagRe = regexp.MustCompile(`<img|<iframe|<video`)
)

// Slot is one media container found in a page.
type Slot struct {
	Start, End int
	Inner      string
}

// Empty reports whether the slot holds no image, iframe or video.
func (s Slot) Empty() bool {
	return !mediaTagRe.MatchString(s.Inner)
}

// Slots lists the media containers of content in document order.
func Slots(content string) []Slot {
	matches := slotRe.FindAllStringSubmatchIndex(content, -1)
	slots := make([]Slot, 0, len(matches))
	for _, m := range matches {
		slots = append(slots, Slot{Start: m[0], End: m[1], Inner: content[m[2]:m[3]]})
	}
	return slots
}

// PageResult describes what happened to one page.
type PageResult struct {
	Name   string
	Slots  int
	Filled int
	Videos int
	// Issue is set when a link-building page has no media container at all.
	Issue bool
}

// FillPage inserts a media element right after the opening tag of every
// empty slot. counter is the number of fills made so far in the run; the
// updated value is returned.
func FillPage(name, content string, counter int) (string, int, PageResult) {
	res := PageResult{Name: name}
	slots := Slots(content)
	res.Slots = len(slots)
	if len(slots) == 0 {
		res.Issue = requiresMedia(name)
		return content, counter, res
	}

	var b strings.Builder
	b.Grow(len(content) + 256*len(slots))
	last := 0
	for _, s := range slots {
		if !s.Empty() {
			continue
		}
		counter++
		el, video := Element(counter)
		insertAt := s.Start + len(slotOpen)
		b.WriteString(content[last:insertAt])
		b.WriteString(el)
		last = insertAt
		res.Filled++
		if video {
			res.Videos++
		}
	}
	if res.Filled == 0 {
		return content, counter, res
	}
	b.WriteString(content[last:])
	return b.String(), counter, res
}

// Element renders the media for the fill with the given 1-based ordinal:
// a video on every third fill, an image otherwise.
func Element(fill int) (string, bool) {
	if fill%videoEvery == 0 {
		src := VideoURLs[fill%len(VideoURLs)]
		return fmt.Sprintf(`<iframe src="%s" title="Link building video" loading="lazy" allowFullScreen></iframe>`, src), true
	}
	src := ImageURLs[fill%len(ImageURLs)]
	return fmt.Sprintf(`<img src="%s" alt="Link building illustration" loading="lazy" />`, src), false
}

func requiresMedia(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "backlink") || strings.Contains(lower, "link-building")
}
