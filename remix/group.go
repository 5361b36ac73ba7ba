// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remix

import (
	"fmt"
	"strings"
)

// OtherFeatures names the group of features without a source design
const OtherFeatures = "Other Features"

// Group is the features taken from one design
type Group struct {
	Key              string
	SourceTitle      string
	SourceSubmission string
	Items            []Item
}

// GroupBySource partitions items by source design. Groups appear in the
// order their first item does and keep their items' relative order.
func GroupBySource(items []Item) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, it := range items {
		key := firstNonEmpty(it.SourceSubmission, it.SourceTitle, OtherFeatures)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				Key:              key,
				SourceTitle:      firstNonEmpty(it.SourceTitle, OtherFeatures),
				SourceSubmission: it.SourceSubmission,
			})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// CountUniqueSources counts designs; a feature without a source counts as
// its own
func CountUniqueSources(items []Item) int {
	seen := make(map[string]bool)
	for _, it := range items {
		seen[firstNonEmpty(it.SourceSubmission, it.SourceTitle, it.ID)] = true
	}
	return len(seen)
}

// Summary is the build description shown before submitting, empty for an
// empty cart
func Summary(items []Item) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This build brings together %s from %s:",
		plural(len(items), "feature"), plural(CountUniqueSources(items), "design"))

	for _, g := range GroupBySource(items) {
		names := make([]string, len(g.Items))
		for i, it := range g.Items {
			names[i] = it.Name
		}
		fmt.Fprintf(&b, "\n• From %s: %s", g.SourceTitle, strings.Join(names, ", "))
	}
	return b.String()
}

// Progress is the composition guidance for a cart
type Progress struct {
	Label   string
	Percent int
	Detail  string
}

// ProgressFor returns guidance for n features from sources designs. The
// zero Progress means there is nothing to show.
func ProgressFor(n, sources int) Progress {
	if n <= 0 {
		return Progress{}
	}

	var p Progress
	switch {
	case n <= 2:
		p = Progress{Label: "Getting started", Percent: n * 12}
	case n <= 5:
		p = Progress{Label: "Nice start", Percent: 25 + (n-2)*13}
	case n <= 8:
		p = Progress{Label: "Looking great", Percent: 65 + (n-5)*12}
	default:
		p = Progress{Label: "Big build! Submit when ready.", Percent: 100}
	}
	if p.Percent > 100 {
		p.Percent = 100
	}
	p.Detail = plural(n, "feature") + " from " + plural(sources, "design")
	return p
}

func (c *Cart) Summary() string {
	return Summary(c.Items())
}

func (c *Cart) Progress() Progress {
	items := c.Items()
	return ProgressFor(len(items), CountUniqueSources(items))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
