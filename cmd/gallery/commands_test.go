// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thirdspaces/gallery/feedback"
	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/middleware"
	"github.com/thirdspaces/gallery/moderation"
	"github.com/thirdspaces/gallery/realtime"
	"github.com/thirdspaces/gallery/router"
	"github.com/thirdspaces/gallery/storage"
	"github.com/thirdspaces/gallery/testutil"
)

var remixReference = regexp.MustCompile(`RX-\d{8}-[A-Z0-9]{4}`)

// newCLI starts an API server and returns a config file pointing at it
func newCLI(t *testing.T) string {
	t.Helper()
	cfg, _ := newCLIWithDB(t)
	return cfg
}

func newCLIWithDB(t *testing.T) (string, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	hub := realtime.NewHub(nil)
	mux := router.NewRouter(db, testutil.GetTestConfig(), moderation.Nop{}, hub, metrics.NewCollector("test"))
	srv := httptest.NewServer(middleware.CORS(middleware.Recover(mux)))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		db.Close()
	})

	dir := t.TempDir()
	return writeFile(t, "gallery.toml", fmt.Sprintf(`
api_url = %q
share_base = "https://gallery.example.org/remix/"
state_path = %q

[log]
level = "off"
`, srv.URL, filepath.Join(dir, "state.db"))), db
}

func runCLI(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, config string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, config, args...)
	require.NoError(t, err, out)
	return out
}

func TestRemixCommands(t *testing.T) {
	cfg := newCLI(t)

	out := mustRun(t, cfg, "remix", "add", "map", "--name", "Live map", "--source", "design-1", "--source-title", "Hangout Finder")
	assert.Contains(t, out, "Added to your build (1/20)")
	out = mustRun(t, cfg, "remix", "add", "chat", "--name", "Chat")
	assert.Contains(t, out, "(2/20)")
	out = mustRun(t, cfg, "remix", "add", "chat")
	assert.Contains(t, out, "already in your build")

	out = mustRun(t, cfg, "remix", "list")
	assert.Contains(t, out, "From Hangout Finder:")
	assert.Contains(t, out, "Live map (map)")
	assert.Contains(t, out, "From Other Features:")

	share := mustRun(t, cfg, "remix", "share")
	assert.Equal(t, "https://gallery.example.org/remix/?features=map%2Cchat\n", share)

	_, err := runCLI(t, cfg, "remix", "clear")
	assert.ErrorContains(t, err, "--yes")
	mustRun(t, cfg, "remix", "clear", "--yes")
	out = mustRun(t, cfg, "remix", "list")
	assert.Contains(t, out, "Your build is empty")

	out = mustRun(t, cfg, "remix", "import", "https://gallery.example.org/remix/?features=map,chat")
	assert.Contains(t, out, "Added 2 features (2/20)")

	mustRun(t, cfg, "remix", "describe", "A", "cozy", "build")
	out = mustRun(t, cfg, "remix", "submit", "--author", "Sam")
	ref := remixReference.FindString(out)
	require.NotEmpty(t, ref, out)
	assert.Contains(t, out, "Submissions left: 1")

	out = mustRun(t, cfg, "remix", "history")
	assert.Contains(t, out, ref)
	assert.Contains(t, out, "A cozy build")
	assert.Contains(t, out, "1 of 2 submissions left.")

	mustRun(t, cfg, "remix", "clear", "--yes")
	out = mustRun(t, cfg, "remix", "again", ref)
	assert.Contains(t, out, "(2/20)")

	_, err = runCLI(t, cfg, "remix", "remove", "nope")
	assert.ErrorContains(t, err, "not in your build")
}

func TestVoteShowsServerCount(t *testing.T) {
	cfg, db := newCLIWithDB(t)
	testutil.InsertTestVote(t, db, "design-1", "favorite", "device-a")
	testutil.InsertTestVote(t, db, "design-1", "favorite", "device-b")

	out := mustRun(t, cfg, "vote", "design-1", "favorite")
	assert.Contains(t, out, "Voted favorite for design-1 (3).")
}

func TestVoteAndDataCommands(t *testing.T) {
	cfg := newCLI(t)

	out := mustRun(t, cfg, "vote", "design-1", "favorite")
	assert.Contains(t, out, "Voted favorite for design-1 (1).")
	out = mustRun(t, cfg, "vote", "design-1", "favorite")
	assert.Contains(t, out, "You already voted favorite for design-1.")
	_, err := runCLI(t, cfg, "vote", "design-1", "best")
	assert.ErrorContains(t, err, "unknown category")

	out = mustRun(t, cfg, "counts")
	assert.Regexp(t, `design-1\s+favorite\s+1\s+✓`, out)

	out = mustRun(t, cfg, "device")
	assert.Regexp(t, `votes\s+1`, out)

	out = mustRun(t, cfg, "data", "inventory")
	assert.Contains(t, out, "Your Votes: 1 design voted on")
	assert.Contains(t, out, "cookie:ts_v2")

	_, err = runCLI(t, cfg, "data", "clear")
	assert.ErrorContains(t, err, "--yes")

	out = mustRun(t, cfg, "data", "clear", "--yes")
	assert.Contains(t, out, "Removed 1 record from our server.")

	out = mustRun(t, cfg, "data", "inventory")
	assert.Contains(t, out, "Your Votes: nothing stored")
	assert.Contains(t, out, "Device ID: nothing stored")
}

func TestFeedbackDraft(t *testing.T) {
	cfg := newCLI(t)

	out := mustRun(t, cfg, "feedback", "design-1", "--text", "Love the map view", "--draft")
	assert.Contains(t, out, "Draft saved.")
	out = mustRun(t, cfg, "data", "inventory")
	assert.Contains(t, out, "tsg_feedback_design-1")

	out = mustRun(t, cfg, "feedback", "design-1", "--tag", "looks-great")
	assert.Regexp(t, `Reference: FB-\d{8}-[A-Z0-9]{4}`, out)

	out = mustRun(t, cfg, "data", "inventory")
	assert.NotContains(t, out, "tsg_feedback_design-1")
	assert.Contains(t, out, "ts:feedback:v1")
}

func TestFeedbackOncePerDesign(t *testing.T) {
	cfg := newCLI(t)

	mustRun(t, cfg, "feedback", "design-1", "--tag", "looks-great")
	out, err := runCLI(t, cfg, "feedback", "design-1", "--tag", "would-share")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You already shared feedback for this design!")

	mustRun(t, cfg, "feedback", "design-2", "--text", "Clear layout")

	loaded, err := LoadConfig(cfg, true)
	require.NoError(t, err)
	db, err := storage.OpenSQLite(loaded.StatePath)
	require.NoError(t, err)
	defer db.Close()
	kv, err := storage.NewSQLiteStore(db, "kv")
	require.NoError(t, err)

	raw, ok, err := kv.Get(storage.KeyFeedback)
	require.NoError(t, err)
	require.True(t, ok, out)
	var stored map[string]feedback.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"looks-great"}, stored["design-1"].Tags)
	assert.Empty(t, stored["design-2"].Tags)
	assert.Regexp(t, `^FB-\d{8}-[A-Z0-9]{4}$`, stored["design-2"].Reference)
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := runCLI(t, filepath.Join(t.TempDir(), "nope.toml"), "remix", "list")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
