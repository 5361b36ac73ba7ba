// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Postgres connection string or sqlite file (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - IPHashSalt: Secret for hashing client IPs (required)
  - GitHubPAT: Token for opening moderation issues (optional)
  - GitHubRepo: owner/name that receives moderation issues
  - GitHubIssuesPrivate: Include comment text in feedback issues
  - LogLevel, LogJSON: Logging output

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--ip-salt     IP hash salt
	--github-pat  Moderation token
	--github-repo Moderation repository
	--log-level   debug, info, warn, error
	--log-json    JSON log output

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	IP_HASH_SALT          → --ip-salt
	GITHUB_PAT            → --github-pat
	GITHUB_REPO           → --github-repo
	GITHUB_ISSUES_PRIVATE
	LOG_LEVEL             → --log-level
	LOG_JSON              → --log-json

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded with godotenv before flags are parsed; it never
overrides variables that are already set.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - IP_HASH_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
