// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Two database types are supported:

	conn, err := db.Open(db.TypePostgres, "postgres://...")  // github.com/lib/pq
	conn, err := db.Open(db.TypeSQLite, "file:gallery.db")   // modernc.org/sqlite

SQLite is used for local development and tests. Open limits SQLite to one
connection, so callers must not issue a second query while iterating rows or
while holding a transaction.

# Schema Creation

CreateSchema initializes all required tables for the given type:

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - votes: category votes, UNIQUE (submission_id, category, voter_fingerprint)
  - vote_counts: view aggregating votes per design and category
  - feedback: moderated comments and tags
  - feedback_upvotes: UNIQUE (feedback_id, voter_fingerprint)
  - published_remixes: moderated remix builds
  - remix_upvotes: UNIQUE (remix_id, voter_fingerprint)
  - data_concerns: privacy requests from the transparency page

# Duplicates

IsUniqueViolation recognises constraint errors from both drivers, so
handlers can turn a repeat vote into 409 without string matching.
*/
package db
