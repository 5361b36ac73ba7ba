// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Third Spaces gallery API server.

The gallery is a youth design showcase. Visitors vote on designs in three
categories, leave quick feedback, collect features from several designs
into a "remix" build, and can inspect or delete everything stored about
their device. Every free-text submission is held for moderation.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=gallery.db IP_HASH_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - IP_HASH_SALT (--ip-salt): Secret mixed into logged client IP hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - GITHUB_PAT, GITHUB_REPO: open moderation issues for new submissions
  - GITHUB_ISSUES_PRIVATE: keep feedback text out of issue bodies
  - LOG_LEVEL, LOG_JSON: logging

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: submissions, votes, upvotes, device data
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, panic recovery, logging, metrics, JSON helpers
  - moderation: GitHub issue notifier behind a circuit breaker
  - realtime: websocket hub for vote inserts
  - metrics: Prometheus collector served on /metrics
  - models: Request/response types
  - auth: IDs, reference codes, IP hashing
  - db: Schema creation for sqlite and postgres
  - cliparse: Configuration parsing
  - logging: zap-backed slog setup

The client half lives in storage, identity, client, voting, remix, privacy
and controller, driven by the gallery command in cmd/gallery.

See package documentation for each component.
*/
package main
