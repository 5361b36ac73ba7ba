// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package moderation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thirdspaces/gallery/models"
)

var submittedAt = time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)

func TestFeedbackTicket(t *testing.T) {
	t.Run("public tracker hides the comment", func(t *testing.T) {
		tk := FeedbackTicket("FB-20261018-AB2C", "design-1", []string{"looks-great"}, "secret words", "rec-1", false, submittedAt)

		assert.Equal(t, "[Feedback] design-1 — FB-20261018-AB2C", tk.Title)
		assert.Equal(t, []string{LabelFeedback}, tk.Labels)
		assert.Equal(t, models.KindFeedback, tk.Kind)
		assert.NotContains(t, tk.Body, "secret words")
		assert.Contains(t, tk.Body, "**Tags:** `looks-great`")
		assert.Contains(t, tk.Body, "record ID: `rec-1`")
		assert.Contains(t, tk.Body, "<!-- CONTENT_TYPE: feedback -->")
		assert.Contains(t, tk.Body, "<!-- RECORD_ID: rec-1 -->")
		assert.Contains(t, tk.Body, "**Submitted:** 2026-10-18T15:04:05Z")
	})

	t.Run("private tracker includes the comment", func(t *testing.T) {
		tk := FeedbackTicket("FB-20261018-AB2C", "design-1", nil, "nice colours", "rec-1", true, submittedAt)

		assert.Contains(t, tk.Body, "### Comment\n\nnice colours")
		assert.Contains(t, tk.Body, "**Tags:** _none_")
	})

	t.Run("tags only", func(t *testing.T) {
		tk := FeedbackTicket("FB-20261018-AB2C", "design-1", []string{"would-share", "easy-to-use"}, "", "rec-1", true, submittedAt)

		assert.Contains(t, tk.Body, "_No text provided (tags only)_")
		assert.Contains(t, tk.Body, "`would-share`, `easy-to-use`")
	})
}

func TestRemixTicket(t *testing.T) {
	features := []models.RemixFeature{
		{ID: "f1", Name: "Dark mode", Icon: "🌙", SourceSubmission: "design-a", SourceTitle: "Night Owl"},
		{ID: "f2", Name: "Map", Icon: "🗺", SourceSubmission: "design-b"},
		{ID: "f3", Name: "Badges", Icon: "🏅", SourceSubmission: "design-a", SourceTitle: "Night Owl"},
		{ID: "f4", Name: "Loose", Icon: "🎯"},
	}

	tk := RemixTicket("RX-20261018-ZZ99", "Sam", features, "my note", "rec-9", submittedAt)

	assert.Equal(t, "[Remix] Sam's remix (4 features) — RX-20261018-ZZ99", tk.Title)
	assert.Equal(t, []string{LabelRemix}, tk.Labels)
	assert.Contains(t, tk.Body, "**Sources:** 3 designs")
	assert.Contains(t, tk.Body, "### Author's Note\n\nmy note")
	assert.Contains(t, tk.Body, "<!-- CONTENT_TYPE: remix -->")

	// Groups appear in first-seen order with their items in order
	night := strings.Index(tk.Body, "**From Night Owl:**\n- 🌙 Dark mode\n- 🏅 Badges\n")
	b := strings.Index(tk.Body, "**From design-b:**\n- 🗺 Map\n")
	unknown := strings.Index(tk.Body, "**From Unknown:**\n- 🎯 Loose\n")
	assert.True(t, night >= 0 && b > night && unknown > b, "unexpected group order:\n%s", tk.Body)
}

func TestRemixTicket_SingleSource(t *testing.T) {
	tk := RemixTicket("RX-20261018-ZZ99", "Anonymous", []models.RemixFeature{
		{ID: "f1", Name: "Dark mode", Icon: "🌙", SourceTitle: "Night Owl"},
	}, "", "rec-1", submittedAt)

	assert.Contains(t, tk.Body, "**Sources:** 1 design\n")
	assert.NotContains(t, tk.Body, "Author's Note")
}

func TestConcernTicket(t *testing.T) {
	tk := ConcernTicket("DC-20261018-QQ22", models.ConcernDeleteData, "rec-3", submittedAt)

	assert.Equal(t, "[Data Concern] Delete my server data — DC-20261018-QQ22", tk.Title)
	assert.Equal(t, []string{LabelConcern}, tk.Labels)
	assert.Contains(t, tk.Body, "**Type:** Delete my server data")
	assert.Contains(t, tk.Body, "<!-- RECORD_ID: rec-3 -->")
}
