// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire types shared by the server and the client.

# Submissions

Three moderated endpoints accept JSON and answer with SubmissionResponse:

  - FeedbackRequest → submit-feedback (reference prefix FB)
  - RemixRequest    → submit-remix    (reference prefix RX)
  - ConcernRequest  → submit-concern  (reference prefix DC)

Validation tags on these structs describe the structural rules applied after
sanitizing. Failures answer 400 with ErrorResponse.

# Votes

	VoteInsert  → POST /rest/v1/votes
	VoteCount   ← GET  /rest/v1/vote_counts
	VoteEvent   ← realtime feed, one per stored vote

A vote is unique per (submission_id, category, voter_fingerprint). A repeat
insert answers 409 with Code set to DuplicateCode.

# Devices

There are no accounts. The device ID a browser generates for itself is the
only principal, sent either in the request body or as X-Device-UUID.
DeviceData summarises what the server holds for one device.
*/
package models
