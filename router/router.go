// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/thirdspaces/gallery/cliparse"
	"github.com/thirdspaces/gallery/handlers"
	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/middleware"
	"github.com/thirdspaces/gallery/moderation"
	"github.com/thirdspaces/gallery/realtime"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, notifier moderation.Notifier, hub *realtime.Hub, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	submissionHandler := handlers.NewSubmissionHandler(db, cfg, notifier, collector)
	voteHandler := handlers.NewVoteHandler(db, cfg, hub, collector)
	upvoteHandler := handlers.NewUpvoteHandler(db, cfg, collector)
	deviceHandler := handlers.NewDeviceHandler(db, cfg, collector)

	// route registers h with logging and per-route metrics
	route := func(pattern string, h http.HandlerFunc) {
		_, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(pattern, middleware.WithMetrics(collector, path, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", collector.Handler())

	// Moderated submissions
	route("POST /functions/v1/submit-feedback", submissionHandler.SubmitFeedback)
	route("POST /functions/v1/submit-remix", submissionHandler.SubmitRemix)
	route("POST /functions/v1/submit-concern", submissionHandler.SubmitConcern)

	// Votes and upvotes
	route("POST /rest/v1/votes", voteHandler.CastVote)
	route("GET /rest/v1/vote_counts", voteHandler.GetVoteCounts)
	route("POST /rest/v1/feedback_upvotes", upvoteHandler.UpvoteFeedback)
	route("POST /rest/v1/remix_upvotes", upvoteHandler.UpvoteRemix)

	// Realtime vote feed
	mux.HandleFunc("GET /realtime/v1/votes", middleware.WithLogging(hub.ServeWS))

	// Device data
	route("GET /devices/me/data", deviceHandler.GetMyData)
	route("POST /devices/me/delete", deviceHandler.DeleteMyData)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("third-spaces-gallery API v1"))
	})

	return mux
}
