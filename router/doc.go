// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Third Spaces gallery API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, notifier, hub, collector)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Moderated submissions (public):

	POST /functions/v1/submit-feedback - Feedback on a design
	POST /functions/v1/submit-remix    - Publish a remix build
	POST /functions/v1/submit-concern  - Privacy or data concern

Votes (public, keyed by device identity):

	POST /rest/v1/votes            - Cast a category vote
	GET  /rest/v1/vote_counts      - Aggregated counts
	POST /rest/v1/feedback_upvotes - Upvote a feedback comment
	POST /rest/v1/remix_upvotes    - Upvote a community remix
	GET  /realtime/v1/votes        - Websocket feed of new votes

Device data (requires X-Device-UUID):

	GET  /devices/me/data   - What the server holds for this device
	POST /devices/me/delete - Delete it

# Middleware

Every API route is wrapped with request logging and per-route metrics.
CORS and panic recovery wrap the whole mux in main.
*/
package router
