// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/testutil"
)

func TestUpvotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	h := NewUpvoteHandler(db, testutil.GetTestConfig(), metrics.NewCollector("test"))

	testCases := []struct {
		name    string
		handler http.HandlerFunc
		path    string
		body    interface{}
		table   string
	}{
		{
			name:    "feedback",
			handler: h.UpvoteFeedback,
			path:    "/rest/v1/feedback_upvotes",
			body:    models.FeedbackUpvoteInsert{FeedbackID: "fb-1", VoterFingerprint: "device-1"},
			table:   "feedback_upvotes",
		},
		{
			name:    "remix",
			handler: h.UpvoteRemix,
			path:    "/rest/v1/remix_upvotes",
			body:    models.RemixUpvoteInsert{RemixID: "rx-1", VoterFingerprint: "device-1"},
			table:   "remix_upvotes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(tc.handler, tc.path, tc.body)
			testutil.AssertStatus(t, w, http.StatusCreated)

			w = postJSON(tc.handler, tc.path, tc.body)
			testutil.AssertStatus(t, w, http.StatusConflict)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Code != models.DuplicateCode {
				t.Errorf("Expected code %s, got %q", models.DuplicateCode, resp.Code)
			}

			if n := testutil.CountRows(t, db, tc.table, ""); n != 1 {
				t.Errorf("Expected 1 row in %s, got %d", tc.table, n)
			}
		})
	}
}

func TestUpvotes_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	h := NewUpvoteHandler(db, testutil.GetTestConfig(), metrics.NewCollector("test"))

	w := postJSON(h.UpvoteFeedback, "/rest/v1/feedback_upvotes", models.FeedbackUpvoteInsert{VoterFingerprint: "d"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = postJSON(h.UpvoteRemix, "/rest/v1/remix_upvotes", models.RemixUpvoteInsert{RemixID: "rx-1"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
