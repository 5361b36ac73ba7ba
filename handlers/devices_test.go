// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/testutil"
)

// seedDeviceData gives device one row in every device-keyed table
func seedDeviceData(t *testing.T, db *sql.DB, device string) {
	t.Helper()

	now := time.Now().UTC()
	stmts := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO feedback (id, submission_id, tags, device_id, reference, created_at) VALUES ($1, 'design-1', '[]', $2, 'FB-20261018-AAAA', $3)`,
			[]interface{}{device + "-fb", device, now}},
		{`INSERT INTO feedback_upvotes (id, feedback_id, voter_fingerprint, created_at) VALUES ($1, 'fb-x', $2, $3)`,
			[]interface{}{device + "-fbu", device, now}},
		{`INSERT INTO published_remixes (id, device_id, features, reference, created_at) VALUES ($1, $2, '[]', 'RX-20261018-AAAA', $3)`,
			[]interface{}{device + "-rx", device, now}},
		{`INSERT INTO remix_upvotes (id, remix_id, voter_fingerprint, created_at) VALUES ($1, 'rx-x', $2, $3)`,
			[]interface{}{device + "-rxu", device, now}},
		{`INSERT INTO data_concerns (id, reference, concern_type, details, device_id, created_at) VALUES ($1, 'DC-20261018-AAAA', 'other', 'some details', $2, $3)`,
			[]interface{}{device + "-dc", device, now}},
	}
	for _, s := range stmts {
		if _, err := db.Exec(s.query, s.args...); err != nil {
			t.Fatalf("Failed to seed device data: %v", err)
		}
	}

	testutil.InsertTestVote(t, db, "design-1", models.CategoryFavorite, device)
	testutil.InsertTestVote(t, db, "design-2", models.CategoryInclusive, device)
}

func TestGetMyData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	h := NewDeviceHandler(db, testutil.GetTestConfig(), metrics.NewCollector("test"))
	seedDeviceData(t, db, "device-1")
	seedDeviceData(t, db, "device-2")

	t.Run("counts only this device", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/devices/me/data", nil, map[string]string{DeviceHeader: "device-1"})
		w := httptest.NewRecorder()

		h.GetMyData(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var data models.DeviceData
		testutil.AssertJSON(t, w, &data)

		expected := models.DeviceData{Votes: 2, Feedback: 1, FeedbackUpvotes: 1, Remixes: 1, RemixUpvotes: 1, Concerns: 1}
		if data != expected {
			t.Errorf("Expected %+v, got %+v", expected, data)
		}
	})

	t.Run("unknown device has nothing", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/devices/me/data", nil, map[string]string{DeviceHeader: "nobody"})
		w := httptest.NewRecorder()

		h.GetMyData(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var data models.DeviceData
		testutil.AssertJSON(t, w, &data)
		if data != (models.DeviceData{}) {
			t.Errorf("Expected zero counts, got %+v", data)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetMyData(w, testutil.MakeRequest("GET", "/devices/me/data", nil, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestDeleteMyData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	h := NewDeviceHandler(db, testutil.GetTestConfig(), metrics.NewCollector("test"))
	seedDeviceData(t, db, "device-1")
	seedDeviceData(t, db, "device-2")

	req := testutil.MakeRequest("POST", "/devices/me/delete", nil, map[string]string{DeviceHeader: "device-1"})
	w := httptest.NewRecorder()

	h.DeleteMyData(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DeleteDataResponse
	testutil.AssertJSON(t, w, &resp)

	expected := models.DeviceData{Votes: 2, Feedback: 1, FeedbackUpvotes: 1, Remixes: 1, RemixUpvotes: 1}
	if resp.Deleted != expected {
		t.Errorf("Expected deleted %+v, got %+v", expected, resp.Deleted)
	}
	if resp.DeletedAt.IsZero() {
		t.Error("Expected deleted_at to be set")
	}

	for _, tbl := range deviceTables {
		n := testutil.CountRows(t, db, tbl.name, tbl.column+" = $1", "device-1")
		if tbl.deletable && n != 0 {
			t.Errorf("Expected %s emptied for device-1, found %d rows", tbl.name, n)
		}
		if !tbl.deletable && n != 1 {
			t.Errorf("Expected %s kept for device-1, found %d rows", tbl.name, n)
		}

		if other := testutil.CountRows(t, db, tbl.name, tbl.column+" = $1", "device-2"); other != 1 && tbl.name != "votes" {
			t.Errorf("Other device lost rows in %s", tbl.name)
		}
	}

	if n := testutil.CountRows(t, db, "votes", "voter_fingerprint = $1", "device-2"); n != 2 {
		t.Errorf("Expected device-2 votes untouched, got %d", n)
	}

	// Deleting again is harmless
	w = httptest.NewRecorder()
	h.DeleteMyData(w, testutil.MakeRequest("POST", "/devices/me/delete", nil, map[string]string{DeviceHeader: "device-1"}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var again models.DeleteDataResponse
	testutil.AssertJSON(t, w, &again)
	if again.Deleted != (models.DeviceData{}) {
		t.Errorf("Expected nothing left to delete, got %+v", again.Deleted)
	}
}
