// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

// Keys are namespaced per concern; each one is written by exactly one package.
const (
	KeyVotes             = "ts:votes:v2"
	KeyDeviceID          = "tsg_device_id"
	KeyRemixCart         = "tsg_remix_cart"
	KeySubmittedRemixes  = "ts:submitted_remixes:v1"
	KeyRemixDescription  = "tsg_remix_description"
	KeyRemixAuthor       = "tsg_remix_author"
	KeyRemixOnboarding   = "tsg_remix_onboarding_seen"
	KeyRemixCTADismissed = "tsg_remix_cta_dismissed"
	KeyPublishedRemixes  = "ts:published_remixes:v1"
	KeyFeedback          = "ts:feedback:v1"
	KeyFeedbackUpvotes   = "ts:feedback_upvotes:v1"
	KeyRemixUpvotes      = "ts:remix_upvotes:v1"
	KeyTheme             = "tsg_theme"
	KeyViewMode          = "tsg_view_mode"
	KeyViewedDesigns     = "tsg_viewed_designs"
	KeyOnboarding        = "tsg_onboarding_complete"

	// PrefixFeedbackDraft is followed by a design ID
	PrefixFeedbackDraft = "tsg_feedback_"

	// VoteCookie is the name of the vote state mirror
	VoteCookie = "ts_v2"
)

// KnownKeys lists every static key, in inventory order.
var KnownKeys = []string{
	KeyVotes,
	KeyDeviceID,
	KeyFeedback,
	KeyRemixCart,
	KeyRemixOnboarding,
	KeySubmittedRemixes,
	KeyRemixDescription,
	KeyRemixAuthor,
	KeyTheme,
	KeyViewMode,
	KeyViewedDesigns,
	KeyOnboarding,
	KeyFeedbackUpvotes,
	KeyPublishedRemixes,
	KeyRemixUpvotes,
	KeyRemixCTADismissed,
}
