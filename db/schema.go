// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

var ErrUnknownType = errors.New("database type must be sqlite or postgres")

// Open connects to the database of the given type and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypePostgres:
		driver = "postgres"
	case TypeSQLite:
		driver = "sqlite"
	default:
		return nil, ErrUnknownType
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	if dbType == TypeSQLite {
		// One writer at a time; also keeps :memory: databases on a single connection
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	stmt, err := Schema(dbType)
	if err != nil {
		return err
	}

	_, err = db.Exec(stmt)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the given database type.
func Schema(dbType string) (string, error) {
	var r *strings.Replacer
	switch dbType {
	case TypePostgres:
		r = strings.NewReplacer(
			"{{timestamp}}", "TIMESTAMPTZ",
			"{{now}}", "NOW()",
			"{{json}}", "JSONB",
			"{{create_view}}", "CREATE OR REPLACE VIEW",
		)
	case TypeSQLite:
		r = strings.NewReplacer(
			"{{timestamp}}", "TIMESTAMP",
			"{{now}}", "CURRENT_TIMESTAMP",
			"{{json}}", "TEXT",
			"{{create_view}}", "CREATE VIEW IF NOT EXISTS",
		)
	default:
		return "", ErrUnknownType
	}
	return r.Replace(schema), nil
}

// IsUniqueViolation reports whether err came from a unique or primary key
// constraint, for either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}

const schema = `
-- Category votes, one per device per design per category
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    category TEXT NOT NULL CHECK (category IN ('favorite', 'innovative', 'inclusive')),
    voter_fingerprint TEXT NOT NULL,
    created_at {{timestamp}} NOT NULL DEFAULT {{now}},
    UNIQUE (submission_id, category, voter_fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_votes_submission ON votes(submission_id);
CREATE INDEX IF NOT EXISTS idx_votes_voter ON votes(voter_fingerprint);

{{create_view}} vote_counts AS
    SELECT submission_id, category, COUNT(*) AS count
    FROM votes
    GROUP BY submission_id, category;

-- Feedback awaiting moderation
CREATE TABLE IF NOT EXISTS feedback (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    author_name TEXT NOT NULL DEFAULT 'Anonymous',
    feedback_text TEXT NOT NULL DEFAULT '',
    tags {{json}} NOT NULL,
    approved BOOLEAN NOT NULL DEFAULT FALSE,
    device_id TEXT,
    reference TEXT NOT NULL,
    github_issue_url TEXT,
    created_at {{timestamp}} NOT NULL DEFAULT {{now}}
);

CREATE INDEX IF NOT EXISTS idx_feedback_device ON feedback(device_id, created_at);
CREATE INDEX IF NOT EXISTS idx_feedback_submission ON feedback(submission_id);

CREATE TABLE IF NOT EXISTS feedback_upvotes (
    id TEXT PRIMARY KEY,
    feedback_id TEXT NOT NULL,
    voter_fingerprint TEXT NOT NULL,
    created_at {{timestamp}} NOT NULL DEFAULT {{now}},
    UNIQUE (feedback_id, voter_fingerprint)
);

-- Published remixes awaiting moderation
CREATE TABLE IF NOT EXISTS published_remixes (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL,
    author_name TEXT NOT NULL DEFAULT 'Anonymous',
    user_note TEXT NOT NULL DEFAULT '',
    features {{json}} NOT NULL,
    approved BOOLEAN NOT NULL DEFAULT FALSE,
    reference TEXT NOT NULL,
    github_issue_url TEXT,
    created_at {{timestamp}} NOT NULL DEFAULT {{now}}
);

CREATE INDEX IF NOT EXISTS idx_published_remixes_device ON published_remixes(device_id, created_at);

CREATE TABLE IF NOT EXISTS remix_upvotes (
    id TEXT PRIMARY KEY,
    remix_id TEXT NOT NULL,
    voter_fingerprint TEXT NOT NULL,
    created_at {{timestamp}} NOT NULL DEFAULT {{now}},
    UNIQUE (remix_id, voter_fingerprint)
);

-- Data concerns from the transparency page
CREATE TABLE IF NOT EXISTS data_concerns (
    id TEXT PRIMARY KEY,
    reference TEXT NOT NULL,
    concern_type TEXT NOT NULL CHECK (concern_type IN ('delete_data', 'data_inquiry', 'privacy_concern', 'other')),
    details TEXT NOT NULL,
    email TEXT,
    device_id TEXT,
    status TEXT NOT NULL DEFAULT 'open',
    github_issue_url TEXT,
    created_at {{timestamp}} NOT NULL DEFAULT {{now}}
);

CREATE INDEX IF NOT EXISTS idx_data_concerns_device ON data_concerns(device_id, created_at);
`
