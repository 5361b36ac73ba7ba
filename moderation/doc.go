// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package moderation opens review tickets for submitted content.

Every feedback comment, published remix and data concern is stored
unapproved. A moderator approves it out-of-band by labelling the matching
GitHub issue, so each submission also opens an issue:

	n, err := moderation.New(cfg.GitHubPAT, cfg.GitHubRepo)
	url, err := n.Open(ctx, moderation.FeedbackTicket(ref, designID, tags, text, recordID, private, time.Now()))

Ticket bodies end with machine-readable markers that the publishing job
uses to find the database row:

	<!-- CONTENT_TYPE: feedback -->
	<!-- RECORD_ID: 3f2a... -->

Opening a ticket is best-effort. Callers log failures and carry on; the
submitter never sees them. GitHubNotifier wraps the API in a circuit breaker
that opens after three consecutive failures. Without a token New returns
Nop, which always reports ErrDisabled.
*/
package moderation
