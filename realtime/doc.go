// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime pushes vote-insert events to live subscribers over websockets.

	hub := realtime.NewHub(collector)
	mux.HandleFunc("GET /realtime/v1/votes", hub.ServeWS)
	...
	hub.Publish(models.VoteEvent{SubmissionID: "design-1", Category: "favorite"})

Every message is a single JSON object {"submission_id": ..., "category": ...}.
Delivery is best-effort: subscribers that fall behind are disconnected and
are expected to reconnect and reload counts in bulk. Close shuts every
connection down and waits for the per-connection goroutines.
*/
package realtime
