// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thirdspaces/gallery/auth"
	"github.com/thirdspaces/gallery/cliparse"
	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/middleware"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/moderation"
)

// Per-device submissions allowed in RateLimitWindow
const (
	FeedbackRateLimit = 5
	RemixRateLimit    = 3
	ConcernRateLimit  = 3
	RateLimitWindow   = time.Hour
)

// Field limits applied by sanitize
const (
	maxIDLength      = 100
	maxNameLength    = 50
	maxTextLength    = 500
	maxIconLength    = 10
	maxTitleLength   = 200
	maxDetailsLength = 2000
	minDetailsLength = 10
	maxEmailLength   = 320
)

const (
	anonymousAuthor = "Anonymous"
	defaultIcon     = "🎯"
)

// Client-facing messages
const (
	msgFeedbackReceived = "Thanks for your feedback! It will appear after a quick review."
	msgRemixReceived    = "Your remix has been submitted! It will appear in the community section after review."
	msgConcernReceived  = "Your concern has been received. We'll look into it."

	msgFeedbackRateLimited = "You've submitted a lot of feedback recently. Please wait before sending more."
	msgRemixRateLimited    = "You've published several remixes recently. Please wait before submitting another."
	msgConcernRateLimited  = "You've submitted recently. Please wait before sending another concern."
)

// notifyTimeout bounds the moderation call so a slow tracker cannot hold the response
const notifyTimeout = 10 * time.Second

type SubmissionHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	notifier moderation.Notifier
	metrics  *metrics.Collector
	now      func() time.Time
}

func NewSubmissionHandler(db *sql.DB, cfg cliparse.Config, notifier moderation.Notifier, m *metrics.Collector) *SubmissionHandler {
	if notifier == nil {
		notifier = moderation.Nop{}
	}
	return &SubmissionHandler{db: db, cfg: cfg, notifier: notifier, metrics: m, now: time.Now}
}

// SubmitFeedback handles POST /functions/v1/submit-feedback
// Stores an unapproved comment and opens a review ticket
func (h *SubmissionHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.reject(w, models.KindFeedback, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.SubmissionID) == "" {
		h.reject(w, models.KindFeedback, http.StatusBadRequest, "Missing submission ID")
		return
	}

	text := strings.TrimSpace(req.FeedbackText)
	tags := []string{}
	for _, tag := range req.Tags {
		if slices.Contains(models.FeedbackTags, tag) {
			tags = append(tags, tag)
		}
	}

	// Must have text or tags
	if text == "" && len(tags) == 0 {
		h.reject(w, models.KindFeedback, http.StatusBadRequest, "Please add a comment or select at least one tag")
		return
	}

	clean := models.FeedbackRequest{
		SubmissionID: sanitize(req.SubmissionID, maxIDLength),
		AuthorName:   anonymousAuthor,
		FeedbackText: sanitize(text, maxTextLength),
		Tags:         tags,
		DeviceID:     sanitize(req.DeviceID, maxIDLength),
	}
	if req.AuthorName != "" {
		clean.AuthorName = sanitize(req.AuthorName, maxNameLength)
	}
	if err := validateRequest(clean); err != nil {
		h.reject(w, models.KindFeedback, http.StatusBadRequest, err.Error())
		return
	}

	// Anonymous submissions without a device are not rate limited
	if clean.DeviceID != "" && h.overLimit("feedback", clean.DeviceID, FeedbackRateLimit) {
		h.rateLimited(w, r, models.KindFeedback, msgFeedbackRateLimited)
		return
	}

	reference, err := auth.GenerateReference(auth.PrefixFeedback, h.now())
	if err != nil {
		slog.Error("failed to generate reference", "error", err)
		h.fail(w, models.KindFeedback, middleware.GenericErrorMessage)
		return
	}

	tagsJSON, err := json.Marshal(clean.Tags)
	if err != nil {
		h.fail(w, models.KindFeedback, middleware.GenericErrorMessage)
		return
	}

	id := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO feedback (id, submission_id, author_name, feedback_text, tags, approved, device_id, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, clean.SubmissionID, clean.AuthorName, clean.FeedbackText, string(tagsJSON), false,
		nullString(clean.DeviceID), reference, h.now().UTC())
	if err != nil {
		slog.Error("failed to insert feedback", "error", err)
		h.fail(w, models.KindFeedback, "Failed to save your feedback. Please try again.")
		return
	}

	h.notify(r.Context(), "feedback", id, moderation.FeedbackTicket(
		reference, clean.SubmissionID, clean.Tags, clean.FeedbackText, id, h.cfg.GitHubIssuesPrivate, h.now(),
	))

	h.accept(w, r, models.KindFeedback, reference, msgFeedbackReceived)
}

// SubmitRemix handles POST /functions/v1/submit-remix
// Stores an unapproved remix of 1..20 features and opens a review ticket
func (h *SubmissionHandler) SubmitRemix(w http.ResponseWriter, r *http.Request) {
	var req models.RemixRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.reject(w, models.KindRemix, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.DeviceID) == "" {
		h.reject(w, models.KindRemix, http.StatusBadRequest, "Missing device ID")
		return
	}
	if len(req.Features) == 0 {
		h.reject(w, models.KindRemix, http.StatusBadRequest, "Remix must contain at least one feature")
		return
	}
	if len(req.Features) > models.MaxRemixFeatures {
		h.reject(w, models.KindRemix, http.StatusBadRequest,
			fmt.Sprintf("Remix can contain at most %d features", models.MaxRemixFeatures))
		return
	}
	for _, f := range req.Features {
		if f.ID == "" {
			h.reject(w, models.KindRemix, http.StatusBadRequest, "Each feature must have an id")
			return
		}
	}

	clean := models.RemixRequest{
		DeviceID:   sanitize(req.DeviceID, maxIDLength),
		AuthorName: anonymousAuthor,
		UserNote:   sanitize(req.UserNote, maxTextLength),
		Features:   make([]models.RemixFeature, len(req.Features)),
	}
	if req.AuthorName != "" {
		clean.AuthorName = sanitize(req.AuthorName, maxNameLength)
	}
	for i, f := range req.Features {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		icon := defaultIcon
		if f.Icon != "" {
			icon = sanitize(f.Icon, maxIconLength)
		}
		clean.Features[i] = models.RemixFeature{
			ID:               sanitize(f.ID, maxIDLength),
			Name:             sanitize(name, maxIDLength),
			Icon:             icon,
			SourceSubmission: sanitize(f.SourceSubmission, maxIDLength),
			SourceTitle:      sanitize(f.SourceTitle, maxTitleLength),
		}
	}
	if err := validateRequest(clean); err != nil {
		h.reject(w, models.KindRemix, http.StatusBadRequest, err.Error())
		return
	}

	if h.overLimit("published_remixes", clean.DeviceID, RemixRateLimit) {
		h.rateLimited(w, r, models.KindRemix, msgRemixRateLimited)
		return
	}

	reference, err := auth.GenerateReference(auth.PrefixRemix, h.now())
	if err != nil {
		slog.Error("failed to generate reference", "error", err)
		h.fail(w, models.KindRemix, middleware.GenericErrorMessage)
		return
	}

	featuresJSON, err := json.Marshal(clean.Features)
	if err != nil {
		h.fail(w, models.KindRemix, middleware.GenericErrorMessage)
		return
	}

	id := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO published_remixes (id, device_id, author_name, user_note, features, approved, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, clean.DeviceID, clean.AuthorName, clean.UserNote, string(featuresJSON), false, reference, h.now().UTC())
	if err != nil {
		slog.Error("failed to insert remix", "error", err)
		h.fail(w, models.KindRemix, "Failed to save your remix. Please try again.")
		return
	}

	h.notify(r.Context(), "published_remixes", id, moderation.RemixTicket(
		reference, clean.AuthorName, clean.Features, clean.UserNote, id, h.now(),
	))

	h.accept(w, r, models.KindRemix, reference, msgRemixReceived)
}

// SubmitConcern handles POST /functions/v1/submit-concern
// Records a privacy/data concern from the transparency page
func (h *SubmissionHandler) SubmitConcern(w http.ResponseWriter, r *http.Request) {
	var req models.ConcernRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.reject(w, models.KindConcern, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, ok := models.ConcernTypeLabels[req.ConcernType]; !ok {
		h.reject(w, models.KindConcern, http.StatusBadRequest, "Invalid concern type")
		return
	}

	detailsMsg := fmt.Sprintf("Details must be at least %d characters", minDetailsLength)
	if len([]rune(strings.TrimSpace(req.Details))) < minDetailsLength {
		h.reject(w, models.KindConcern, http.StatusBadRequest, detailsMsg)
		return
	}

	clean := models.ConcernRequest{
		ConcernType: req.ConcernType,
		Details:     sanitize(req.Details, maxDetailsLength),
		Email:       sanitize(req.Email, maxEmailLength),
		DeviceID:    sanitize(req.DeviceID, maxIDLength),
	}
	if err := validateRequest(clean); err != nil {
		msg := err.Error()
		if strings.HasPrefix(msg, "details ") {
			msg = detailsMsg
		}
		h.reject(w, models.KindConcern, http.StatusBadRequest, msg)
		return
	}

	if clean.DeviceID != "" && h.overLimit("data_concerns", clean.DeviceID, ConcernRateLimit) {
		h.rateLimited(w, r, models.KindConcern, msgConcernRateLimited)
		return
	}

	reference, err := auth.GenerateReference(auth.PrefixConcern, h.now())
	if err != nil {
		slog.Error("failed to generate reference", "error", err)
		h.fail(w, models.KindConcern, middleware.GenericErrorMessage)
		return
	}

	id := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO data_concerns (id, reference, concern_type, details, email, device_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, reference, clean.ConcernType, clean.Details, nullString(clean.Email), nullString(clean.DeviceID),
		models.ConcernStatusOpen, h.now().UTC())
	if err != nil {
		slog.Error("failed to insert concern", "error", err)
		h.fail(w, models.KindConcern, "Failed to save your concern. Please try again.")
		return
	}

	h.notify(r.Context(), "data_concerns", id, moderation.ConcernTicket(reference, clean.ConcernType, id, h.now()))

	h.accept(w, r, models.KindConcern, reference, msgConcernReceived)
}

// overLimit counts the device's rows in table over the last window. A failed
// count lets the submission through.
func (h *SubmissionHandler) overLimit(table, deviceID string, max int) bool {
	since := h.now().Add(-RateLimitWindow).UTC()

	var count int
	err := h.db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE device_id = $1 AND created_at >= $2`, table),
		deviceID, since,
	).Scan(&count)
	if err != nil {
		slog.Warn("rate limit count failed", "table", table, "error", err)
		return false
	}

	return count >= max
}

// notify opens the moderation ticket and stores its URL. Nothing here can
// fail the submission.
func (h *SubmissionHandler) notify(ctx context.Context, table, recordID string, t moderation.Ticket) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	issueURL, err := h.notifier.Open(ctx, t)
	if err != nil {
		if !errors.Is(err, moderation.ErrDisabled) {
			h.metrics.NotifierFailed(t.Kind)
			slog.Warn("moderation ticket failed", "kind", t.Kind, "record_id", recordID, "error", err)
		}
		return
	}

	_, err = h.db.Exec(
		fmt.Sprintf(`UPDATE %s SET github_issue_url = $1 WHERE id = $2`, table),
		issueURL, recordID,
	)
	if err != nil {
		slog.Warn("failed to store issue url", "kind", t.Kind, "record_id", recordID, "error", err)
	}
}

func (h *SubmissionHandler) accept(w http.ResponseWriter, r *http.Request, kind, reference, message string) {
	h.metrics.Submission(kind, metrics.OutcomeAccepted)
	slog.Info("submission accepted",
		"kind", kind,
		"reference", reference,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
	)

	middleware.JSONResponse(w, http.StatusOK, models.SubmissionResponse{
		Success:   true,
		Reference: reference,
		Message:   message,
	})
}

func (h *SubmissionHandler) reject(w http.ResponseWriter, kind string, status int, message string) {
	h.metrics.Submission(kind, metrics.OutcomeInvalid)
	middleware.ErrorResponse(w, status, message)
}

func (h *SubmissionHandler) rateLimited(w http.ResponseWriter, r *http.Request, kind, message string) {
	h.metrics.Submission(kind, metrics.OutcomeRateLimited)
	slog.Info("submission rate limited",
		"kind", kind,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
	)
	middleware.ErrorResponse(w, http.StatusTooManyRequests, message)
}

func (h *SubmissionHandler) fail(w http.ResponseWriter, kind, message string) {
	h.metrics.Submission(kind, metrics.OutcomeFailed)
	middleware.ErrorResponse(w, http.StatusInternalServerError, message)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
