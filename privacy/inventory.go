// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package privacy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/thirdspaces/gallery/storage"
)

// Category groups the keys that hold one kind of personal data
type Category struct {
	ID          string
	Label       string
	Icon        string
	Description string
	Storage     string
	Duration    string

	Keys   []string
	Prefix string
	Cookie bool

	summary func(entries []Entry) string
}

// Entry is one stored value. Cookie entries are listed as "cookie:<name>".
type Entry struct {
	Key    string
	Value  string
	Size   int
	Cookie bool
}

// Report is what Inventory shows for one category
type Report struct {
	Category
	Entries []Entry
	Summary string
}

func (r Report) HasData() bool {
	return len(r.Entries) > 0
}

// Size is the total stored size in bytes
func (r Report) Size() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Size
	}
	return n
}

// HumanSize is Size formatted like "1.2 kB"
func (r Report) HumanSize() string {
	return humanize.Bytes(uint64(r.Size()))
}

const (
	browserOnly   = "This device only"
	browserServer = "This device + our server (if connected)"
	untilDeleted  = "Until you delete it"
)

// Categories lists every kind of data kept about the user, in display order.
// Together they cover every key in storage.KnownKeys.
var Categories = []Category{
	{
		ID:          "votes",
		Label:       "Your Votes",
		Icon:        "💖",
		Description: "Which designs you voted on and in which categories",
		Storage:     browserServer,
		Duration:    "Until you delete it (cookie backup lasts 180 days)",
		Keys:        []string{storage.KeyVotes},
		Cookie:      true,
		summary:     summarizeVotes,
	},
	{
		ID:          "identity",
		Label:       "Device ID",
		Icon:        "🔑",
		Description: "A random ID used to prevent duplicate votes, not linked to your name",
		Storage:     "This device + our server (as a random code)",
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyDeviceID},
		summary: func(entries []Entry) string {
			id := entries[0].Value
			if len(id) > 8 {
				id = id[:8]
			}
			return "Random ID: " + id + "..."
		},
	},
	{
		ID:          "feedback",
		Label:       "Feedback & Tags",
		Icon:        "💬",
		Description: "Quick feedback tags you selected on designs",
		Storage:     browserServer,
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyFeedback},
		Prefix:      storage.PrefixFeedbackDraft,
		summary: func(entries []Entry) string {
			n := len(entries)
			if n == 1 {
				return "1 feedback entry stored"
			}
			return fmt.Sprintf("%d feedback entries stored", n)
		},
	},
	{
		ID:          "remix",
		Label:       "Remix Cart",
		Icon:        "🎨",
		Description: "Features you collected for your remix and the builds you submitted",
		Storage:     browserOnly,
		Duration:    untilDeleted,
		Keys: []string{
			storage.KeyRemixCart,
			storage.KeyRemixOnboarding,
			storage.KeySubmittedRemixes,
			storage.KeyRemixDescription,
			storage.KeyRemixAuthor,
			storage.KeyRemixCTADismissed,
		},
		summary: func(entries []Entry) string {
			e, ok := find(entries, storage.KeyRemixCart)
			if !ok {
				return "Remix settings only"
			}
			var cart []json.RawMessage
			if json.Unmarshal([]byte(e.Value), &cart) != nil {
				return "Remix data stored"
			}
			return countOf(len(cart), "feature", "features") + " saved"
		},
	},
	{
		ID:          "preferences",
		Label:       "Preferences",
		Icon:        "⚙️",
		Description: "Your theme choice (Chill or Hype) and gallery view mode",
		Storage:     browserOnly,
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyTheme, storage.KeyViewMode},
		summary: func(entries []Entry) string {
			var parts []string
			if e, ok := find(entries, storage.KeyTheme); ok {
				if e.Value == "hype" {
					parts = append(parts, "Hype mode (dark)")
				} else {
					parts = append(parts, "Chill mode (light)")
				}
			}
			if e, ok := find(entries, storage.KeyViewMode); ok {
				if e.Value == "immersive" {
					parts = append(parts, "Immersive view")
				} else {
					parts = append(parts, "Grid view")
				}
			}
			return strings.Join(parts, ", ")
		},
	},
	{
		ID:          "history",
		Label:       "Viewing History",
		Icon:        "👁️",
		Description: "Which designs you viewed in immersive mode",
		Storage:     browserOnly,
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyViewedDesigns, storage.KeyOnboarding},
		summary: func(entries []Entry) string {
			e, ok := find(entries, storage.KeyViewedDesigns)
			if !ok {
				return "Onboarding flag only"
			}
			var viewed []json.RawMessage
			if json.Unmarshal([]byte(e.Value), &viewed) != nil {
				return "Viewing data stored"
			}
			return countOf(len(viewed), "design", "designs") + " viewed"
		},
	},
	{
		ID:          "feedback_upvotes",
		Label:       "Feedback Upvotes",
		Icon:        "👍",
		Description: "Which community feedback comments you upvoted",
		Storage:     browserServer,
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyFeedbackUpvotes},
		summary:     summarizeMap(storage.KeyFeedbackUpvotes, "feedback comment", "feedback comments", "upvoted"),
	},
	{
		ID:          "published_remixes",
		Label:       "Published Remixes",
		Icon:        "📤",
		Description: "Remixes you submitted for community display",
		Storage:     browserServer,
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyPublishedRemixes},
		summary:     summarizeMap(storage.KeyPublishedRemixes, "remix", "remixes", "published"),
	},
	{
		ID:          "remix_upvotes",
		Label:       "Remix Upvotes",
		Icon:        "⭐",
		Description: "Which community remixes you upvoted",
		Storage:     browserServer,
		Duration:    untilDeleted,
		Keys:        []string{storage.KeyRemixUpvotes},
		summary:     summarizeMap(storage.KeyRemixUpvotes, "remix", "remixes", "upvoted"),
	},
}

// CategoryByID looks up one of Categories
func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func summarizeVotes(entries []Entry) string {
	e, ok := find(entries, storage.KeyVotes)
	if !ok {
		return "Vote backup cookie stored"
	}
	var state struct {
		Votes map[string]json.RawMessage `json:"votes"`
	}
	if json.Unmarshal([]byte(e.Value), &state) != nil {
		return "Vote data stored"
	}
	return countOf(len(state.Votes), "design", "designs") + " voted on"
}

func summarizeMap(key, one, many, verb string) func([]Entry) string {
	return func(entries []Entry) string {
		e, ok := find(entries, key)
		if !ok {
			return "Data stored"
		}
		var m map[string]json.RawMessage
		if json.Unmarshal([]byte(e.Value), &m) != nil {
			return "Data stored"
		}
		return countOf(len(m), one, many) + " " + verb
	}
}

func find(entries []Entry, key string) (Entry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

func countOf(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
