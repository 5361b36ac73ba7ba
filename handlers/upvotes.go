// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thirdspaces/gallery/cliparse"
	"github.com/thirdspaces/gallery/db"
	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/middleware"
	"github.com/thirdspaces/gallery/models"
)

// Upvote targets, also used as metric labels
const (
	TargetFeedback = "feedback"
	TargetRemix    = "remix"
)

type UpvoteHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	metrics *metrics.Collector
	now     func() time.Time
}

func NewUpvoteHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Collector) *UpvoteHandler {
	return &UpvoteHandler{db: db, cfg: cfg, metrics: m, now: time.Now}
}

// UpvoteFeedback handles POST /rest/v1/feedback_upvotes
func (h *UpvoteHandler) UpvoteFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackUpvoteInsert
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	h.insert(w, TargetFeedback, "feedback_upvotes", "feedback_id", req.FeedbackID, req.VoterFingerprint)
}

// UpvoteRemix handles POST /rest/v1/remix_upvotes
func (h *UpvoteHandler) UpvoteRemix(w http.ResponseWriter, r *http.Request) {
	var req models.RemixUpvoteInsert
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	h.insert(w, TargetRemix, "remix_upvotes", "remix_id", req.RemixID, req.VoterFingerprint)
}

func (h *UpvoteHandler) insert(w http.ResponseWriter, target, table, column, targetID, voter string) {
	targetID = strings.TrimSpace(targetID)
	voter = strings.TrimSpace(voter)

	if targetID == "" || len(targetID) > maxIDLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, column+" is required")
		return
	}
	if voter == "" || len(voter) > maxIDLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_fingerprint is required")
		return
	}

	id := uuid.NewString()
	_, err := h.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (id, %s, voter_fingerprint, created_at) VALUES ($1, $2, $3, $4)`, table, column),
		id, targetID, voter, h.now().UTC(),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			h.metrics.Upvote(target, true)
			middleware.ConflictResponse(w, msgDuplicate)
			return
		}
		slog.Error("failed to insert upvote", "table", table, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}

	h.metrics.Upvote(target, false)
	middleware.JSONResponse(w, http.StatusCreated, models.InsertResponse{ID: id})
}
