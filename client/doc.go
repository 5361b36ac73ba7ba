// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is the HTTP client for the gallery API.

# Submissions

SubmitFeedback, SubmitRemix and SubmitConcern post to the moderated
endpoints and return the reference code on success. The server applies
validation, per-device hourly rate limits and moderation; the client only
reports what happened.

# Errors

Every failure is an *APIError. Use errors.Is with the package sentinels:

	err := c.InsertVote(ctx, vote)
	if errors.Is(err, client.ErrDuplicate) {
		// already recorded, not a failure
	}

Every request is bounded by a timeout (DefaultTimeout unless WithTimeout is
given) and fails with ErrTimedOut when it expires.

# Retries

Writes are never retried. VoteCounts retries transient failures and
Subscribe reconnects the realtime feed, both with exponential backoff.
*/
package client
