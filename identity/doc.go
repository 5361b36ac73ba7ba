// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package identity provides the random device ID that deduplicates votes,
// upvotes and remix submissions server-side. It is a random UUID stored under
// tsg_device_id, never a fingerprint, and clearing data forces a new one.
package identity
