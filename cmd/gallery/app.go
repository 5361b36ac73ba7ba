// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/controller"
	"github.com/thirdspaces/gallery/logging"
	"github.com/thirdspaces/gallery/storage"
)

// app is one CLI invocation: the state file, the API client and a page
type app struct {
	cfg  Config
	out  io.Writer
	db   *sql.DB
	api  *client.Client
	page *controller.Page

	loaded bool
	flush  func()
}

func openApp(cfg Config, out io.Writer) (*app, error) {
	flush, err := logging.Setup(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, err
	}

	db, err := storage.OpenSQLite(cfg.StatePath)
	if err != nil {
		flush()
		return nil, fmt.Errorf("failed to open state %s: %w", cfg.StatePath, err)
	}
	kvStore, err := storage.NewSQLiteStore(db, "kv")
	if err != nil {
		db.Close()
		flush()
		return nil, err
	}
	cookieStore, err := storage.NewSQLiteStore(db, "cookies")
	if err != nil {
		db.Close()
		flush()
		return nil, err
	}

	kv := storage.NewSafe(kvStore)
	api := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))
	page := controller.NewPage(kv, storage.NewSafe(cookieStore),
		controller.WithAPI(api),
		controller.WithVotingConfig(cfg.votingConfig()),
		controller.WithShareBase(cfg.ShareBase),
	)

	return &app{cfg: cfg, out: out, db: db, api: api, page: page, flush: flush}, nil
}

// load restores the page; commands that only read storage skip it
func (a *app) load() {
	a.page.Load()
	a.loaded = true
}

// Close saves a loaded page and releases the state file
func (a *app) Close() error {
	if a.loaded {
		a.page.Save()
	}
	err := a.db.Close()
	a.flush()
	return err
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
