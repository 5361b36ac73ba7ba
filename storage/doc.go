// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package storage is the local persistent state used by every client engine.

# Backends

A Store may fail on any call:

  - MemoryStore: a map, for tests and throwaway sessions
  - SQLiteStore: one key-value table in a local sqlite file

Engines never see those failures. They hold a KV, normally a Safe:

	db, _ := storage.OpenSQLite("gallery-state.db")
	kv, _ := storage.NewSQLiteStore(db, "kv")
	state := storage.NewSafe(kv)

Safe logs a failed write and keeps the value in memory for the rest of the
process; a failed read looks like a missing key.

# Cookie Mirror

Vote state is also mirrored as a base64 JSON cookie (Max-Age 180 days,
Path=/, SameSite=Lax). When the primary key is missing the voting engine
falls back to the mirror. The cookie line lives in its own KV so the two
copies can be cleared independently.

# Keys

Every key is namespaced and owned by a single package; see KnownKeys and
PrefixFeedbackDraft for the full inventory used by the privacy package.
*/
package storage
