// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/thirdspaces/gallery/models"
)

const approveHint = "**To approve:** Add the `approved` label to this issue."

func markers(kind, recordID string) []string {
	return []string{
		fmt.Sprintf("<!-- CONTENT_TYPE: %s -->", kind),
		fmt.Sprintf("<!-- RECORD_ID: %s -->", recordID),
	}
}

// FeedbackTicket builds the review issue for a feedback record. Public
// trackers only get the record ID; the comment itself stays in the database.
func FeedbackTicket(reference, submissionID string, tags []string, text, recordID string, private bool, now time.Time) Ticket {
	tagList := "_none_"
	if len(tags) > 0 {
		quoted := make([]string, len(tags))
		for i, tag := range tags {
			quoted[i] = "`" + tag + "`"
		}
		tagList = strings.Join(quoted, ", ")
	}

	lines := []string{
		"## Feedback Submitted for Review",
		"",
		fmt.Sprintf("**Reference:** `%s`", reference),
		fmt.Sprintf("**Design:** `%s`", submissionID),
		fmt.Sprintf("**Tags:** %s", tagList),
		fmt.Sprintf("**Submitted:** %s", now.UTC().Format(time.RFC3339)),
		"",
	}

	if private {
		comment := text
		if comment == "" {
			comment = "_No text provided (tags only)_"
		}
		lines = append(lines, "### Comment", "", comment, "")
	} else {
		lines = append(lines, fmt.Sprintf("View details in the database using record ID: `%s`", recordID), "")
	}

	lines = append(lines, "---", "", approveHint, "")
	lines = append(lines, markers(models.KindFeedback, recordID)...)
	lines = append(lines, "", "*Auto-created by the Third Spaces Gallery feedback system.*")

	return Ticket{
		Kind:     models.KindFeedback,
		Title:    fmt.Sprintf("[Feedback] %s — %s", submissionID, reference),
		Body:     strings.Join(lines, "\n"),
		Labels:   []string{LabelFeedback},
		RecordID: recordID,
	}
}

type featureGroup struct {
	source   string
	features []models.RemixFeature
}

// groupFeatures groups by source title, then source id, in first-seen order
func groupFeatures(features []models.RemixFeature) []featureGroup {
	var groups []featureGroup
	index := make(map[string]int)
	for _, f := range features {
		src := f.SourceTitle
		if src == "" {
			src = f.SourceSubmission
		}
		if src == "" {
			src = "Unknown"
		}
		i, ok := index[src]
		if !ok {
			i = len(groups)
			index[src] = i
			groups = append(groups, featureGroup{source: src})
		}
		groups[i].features = append(groups[i].features, f)
	}
	return groups
}

// RemixTicket builds the review issue for a published remix
func RemixTicket(reference, author string, features []models.RemixFeature, note, recordID string, now time.Time) Ticket {
	groups := groupFeatures(features)

	var list strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&list, "\n**From %s:**\n", g.source)
		for _, f := range g.features {
			fmt.Fprintf(&list, "- %s %s\n", f.Icon, f.Name)
		}
	}

	plural := "s"
	if len(groups) == 1 {
		plural = ""
	}

	noteSection := ""
	if note != "" {
		noteSection = fmt.Sprintf("### Author's Note\n\n%s\n", note)
	}

	lines := []string{
		"## Remix Published for Review",
		"",
		fmt.Sprintf("**Reference:** `%s`", reference),
		fmt.Sprintf("**Author:** %s", author),
		fmt.Sprintf("**Features:** %d", len(features)),
		fmt.Sprintf("**Sources:** %d design%s", len(groups), plural),
		fmt.Sprintf("**Submitted:** %s", now.UTC().Format(time.RFC3339)),
		"",
		"### Features",
		list.String(),
		noteSection,
		"---",
		"",
		approveHint,
		"",
	}
	lines = append(lines, markers(models.KindRemix, recordID)...)
	lines = append(lines, "", "*Auto-created by the Third Spaces Gallery remix system.*")

	return Ticket{
		Kind:     models.KindRemix,
		Title:    fmt.Sprintf("[Remix] %s's remix (%d features) — %s", author, len(features), reference),
		Body:     strings.Join(lines, "\n"),
		Labels:   []string{LabelRemix},
		RecordID: recordID,
	}
}

// ConcernTicket builds the issue for a data concern. Details and email never
// leave the database.
func ConcernTicket(reference, concernType, recordID string, now time.Time) Ticket {
	label, ok := models.ConcernTypeLabels[concernType]
	if !ok {
		label = concernType
	}

	lines := []string{
		"## Data Concern Submitted",
		"",
		fmt.Sprintf("**Reference:** `%s`", reference),
		fmt.Sprintf("**Type:** %s", label),
		fmt.Sprintf("**Submitted:** %s", now.UTC().Format(time.RFC3339)),
		"",
		fmt.Sprintf("View details in the database using record ID: `%s`", recordID),
		"",
	}
	lines = append(lines, markers(models.KindConcern, recordID)...)
	lines = append(lines, "", "---", "*Auto-created by the Third Spaces Gallery transparency page.*")

	return Ticket{
		Kind:     models.KindConcern,
		Title:    fmt.Sprintf("[Data Concern] %s — %s", label, reference),
		Body:     strings.Join(lines, "\n"),
		Labels:   []string{LabelConcern},
		RecordID: recordID,
	}
}
