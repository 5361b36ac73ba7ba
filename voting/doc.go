// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting records this device's category votes and upvotes.

# Votes

Engine.Vote runs, in order: the honeypot check, the minimum time since
Load, the rate-limit window (30 actions per 10 minutes by default) and the
already-voted check. The first three fail silently except for the rate
limit, which carries RateLimitWarning. A repeat vote is a no-op.

A vote that passes is recorded locally and counted before the server is
asked. The Result says how far it got:

  - Confirmed: the server stored it, or already had it
  - OptimisticOnly: it stands locally; the server was offline or failed
  - Failed: nothing was recorded

A failed sync never removes the local vote.

# Counts

LoadCounts replaces the displayed counts with the server aggregate and
Subscribe adds realtime inserts on top. Realtime events are not matched
against local votes, so a count can run one ahead until the next
LoadCounts.

# State

State is stored under ts:votes:v2 and mirrored to the ts_v2 cookie. Load
reads the store, then the cookie, then starts fresh; malformed data counts
as no data.

# Upvotes

Upvotes confirms feedback upvotes with the server before marking them, and
marks remix upvotes immediately, rolling back if the server refuses.
*/
package voting
