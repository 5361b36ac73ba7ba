// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus counters for the gallery API.

A Collector owns a private registry and is served at GET /metrics:

	c := metrics.NewCollector("gallery")
	mux.Handle("GET /metrics", c.Handler())

HTTP traffic is recorded through middleware.WithMetrics. Handlers record
business events directly: submissions by kind and outcome, vote and upvote
inserts (with duplicates counted separately), moderation notifier failures
and data deletions. Policy outcomes such as rate limits are counted here
rather than logged as errors.
*/
package metrics
