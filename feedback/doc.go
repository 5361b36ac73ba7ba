// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package feedback sends quick feedback on a design and remembers which
designs this device already reviewed.

# Submitting

Tracker.Submit allows one entry per design. It checks, in order:

  - the design was not reviewed before ("You already shared feedback for this design!")
  - there is text or at least one tag
  - the honeypot is empty; a filled one reports success without sending anything

On success the entry is stored under storage.KeyFeedback as an object keyed
by design ID:

	{"design-1": {"timestamp": "2026-10-18T09:00:00Z", "tags": ["looks-great"], "reference": "FB-20261018-AB2C"}}

Without an API the entry is only kept locally.

# Drafts

SaveDraft keeps unsent text under storage.PrefixFeedbackDraft plus the
design ID. Submit falls back to it when no text is given and removes it
once the feedback is recorded.
*/
package feedback
