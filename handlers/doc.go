// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Third Spaces gallery API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SubmissionHandler: moderated feedback, remix and data-concern submissions
  - VoteHandler: category votes, vote counts and realtime fan-out
  - UpvoteHandler: upvotes on feedback comments and community remixes
  - DeviceHandler: per-device data inventory and delete-my-data

Handlers are created via constructor functions:

	submissions := handlers.NewSubmissionHandler(db, cfg, notifier, collector)

# Submissions

	POST /functions/v1/submit-feedback → SubmitFeedback (prefix FB)
	POST /functions/v1/submit-remix    → SubmitRemix    (prefix RX)
	POST /functions/v1/submit-concern  → SubmitConcern  (prefix DC)

Every submission is sanitized (trimmed, cut to length, angle brackets
removed), validated, rate limited per device over the last hour (5, 3 and 3
respectively), stored unapproved and answered with a reference code such as
FB-20261018-K7QX. Opening the moderation ticket happens after the insert and
can never fail the request.

Errors are always {"error": "..."}: 400 for validation, 429 for rate
limits, 500 with a generic message for anything unexpected.

# Votes

	POST /rest/v1/votes        → CastVote      (201, or 409 with code 23505)
	GET  /rest/v1/vote_counts  → GetVoteCounts
	POST /rest/v1/feedback_upvotes → UpvoteFeedback
	POST /rest/v1/remix_upvotes    → UpvoteRemix

Uniqueness is enforced by the database. Clients treat the 409 as "already
recorded". Every stored vote is published to the realtime hub.

# Device Data

	GET  /devices/me/data   → GetMyData
	POST /devices/me/delete → DeleteMyData

Device operations require the X-Device-UUID header. Deletion removes votes,
feedback, upvotes and remixes in one transaction; data concerns are kept so
the request itself can be answered.
*/
package handlers
