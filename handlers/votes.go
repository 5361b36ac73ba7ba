// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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
	"github.com/thirdspaces/gallery/realtime"
)

const msgDuplicate = "duplicate key value violates unique constraint"

type VoteHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	hub     *realtime.Hub
	metrics *metrics.Collector
	now     func() time.Time
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, hub *realtime.Hub, m *metrics.Collector) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, hub: hub, metrics: m, now: time.Now}
}

// CastVote handles POST /rest/v1/votes
// One vote per (submission, category, device); repeats get 409 with code 23505
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteInsert
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.SubmissionID = strings.TrimSpace(req.SubmissionID)
	req.VoterFingerprint = strings.TrimSpace(req.VoterFingerprint)

	if req.SubmissionID == "" || len(req.SubmissionID) > maxIDLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "submission_id is required")
		return
	}
	if !models.IsCategory(req.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category must be one of: favorite, innovative, inclusive")
		return
	}
	if req.VoterFingerprint == "" || len(req.VoterFingerprint) > maxIDLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_fingerprint is required")
		return
	}

	id := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO votes (id, submission_id, category, voter_fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, req.SubmissionID, req.Category, req.VoterFingerprint, h.now().UTC())
	if err != nil {
		if db.IsUniqueViolation(err) {
			h.metrics.Vote(req.Category, true)
			slog.Debug("duplicate vote", "submission_id", req.SubmissionID, "category", req.Category)
			middleware.ConflictResponse(w, msgDuplicate)
			return
		}
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}

	h.metrics.Vote(req.Category, false)
	if h.hub != nil {
		h.hub.Publish(models.VoteEvent{SubmissionID: req.SubmissionID, Category: req.Category})
	}

	middleware.JSONResponse(w, http.StatusCreated, models.InsertResponse{ID: id})
}

// GetVoteCounts handles GET /rest/v1/vote_counts
// Optional ?submission_id= narrows the result to one design
func (h *VoteHandler) GetVoteCounts(w http.ResponseWriter, r *http.Request) {
	query := `SELECT submission_id, category, count FROM vote_counts`
	args := []interface{}{}
	if id := r.URL.Query().Get("submission_id"); id != "" {
		query += ` WHERE submission_id = $1`
		args = append(args, id)
	}
	query += ` ORDER BY submission_id, category`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}
	defer rows.Close()

	counts := []models.VoteCount{}
	for rows.Next() {
		var c models.VoteCount
		if err := rows.Scan(&c.SubmissionID, &c.Category, &c.Count); err != nil {
			slog.Error("failed to scan vote count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
			return
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, counts)
}
