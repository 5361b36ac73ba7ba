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

	"github.com/thirdspaces/gallery/cliparse"
	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/middleware"
	"github.com/thirdspaces/gallery/models"
)

// DeviceHeader carries the client's device identity
const DeviceHeader = "X-Device-UUID"

// deviceTable is one table holding rows keyed by a device
type deviceTable struct {
	name   string
	column string
	// deletable tables are wiped by delete-my-data; concerns are kept as support records
	deletable bool
}

var deviceTables = []deviceTable{
	{"votes", "voter_fingerprint", true},
	{"feedback", "device_id", true},
	{"feedback_upvotes", "voter_fingerprint", true},
	{"published_remixes", "device_id", true},
	{"remix_upvotes", "voter_fingerprint", true},
	{"data_concerns", "device_id", false},
}

type DeviceHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	metrics *metrics.Collector
	now     func() time.Time
}

func NewDeviceHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Collector) *DeviceHandler {
	return &DeviceHandler{db: db, cfg: cfg, metrics: m, now: time.Now}
}

// GetMyData handles GET /devices/me/data
// Returns how many rows the server holds for this device, per table
func (h *DeviceHandler) GetMyData(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := requireDevice(w, r)
	if !ok {
		return
	}

	counts := make(map[string]int64, len(deviceTables))
	for _, t := range deviceTables {
		var n int64
		err := h.db.QueryRow(
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, t.name, t.column),
			deviceID,
		).Scan(&n)
		if err != nil {
			slog.Error("failed to count device rows", "table", t.name, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
			return
		}
		counts[t.name] = n
	}

	middleware.JSONResponse(w, http.StatusOK, toDeviceData(counts))
}

// DeleteMyData handles POST /devices/me/delete
// Removes votes, feedback, upvotes and remixes for this device in one transaction
func (h *DeviceHandler) DeleteMyData(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := requireDevice(w, r)
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}
	defer tx.Rollback()

	deleted := make(map[string]int64, len(deviceTables))
	for _, t := range deviceTables {
		if !t.deletable {
			continue
		}
		res, err := tx.Exec(
			fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.column),
			deviceID,
		)
		if err != nil {
			slog.Error("failed to delete device rows", "table", t.name, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			slog.Error("failed to read rows affected", "table", t.name, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
			return
		}
		deleted[t.name] = n
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit deletion", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}

	h.metrics.DataDeleted()
	slog.Info("device data deleted", "rows", deleted)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteDataResponse{
		Deleted:   toDeviceData(deleted),
		DeletedAt: h.now().UTC(),
	})
}

func requireDevice(w http.ResponseWriter, r *http.Request) (string, bool) {
	deviceID := strings.TrimSpace(r.Header.Get(DeviceHeader))
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, DeviceHeader+" header required")
		return "", false
	}
	if len(deviceID) > maxIDLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid "+DeviceHeader+" header")
		return "", false
	}
	return deviceID, true
}

func toDeviceData(counts map[string]int64) models.DeviceData {
	return models.DeviceData{
		Votes:           counts["votes"],
		Feedback:        counts["feedback"],
		FeedbackUpvotes: counts["feedback_upvotes"],
		Remixes:         counts["published_remixes"],
		RemixUpvotes:    counts["remix_upvotes"],
		Concerns:        counts["data_concerns"],
	}
}
