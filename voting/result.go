// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

// Outcome says how far a vote or upvote got
type Outcome string

const (
	// Confirmed means the server holds the record (possibly from before)
	Confirmed Outcome = "confirmed"
	// OptimisticOnly means the record stands locally but the server did not take it
	OptimisticOnly Outcome = "optimistic_only"
	// Failed means nothing was recorded; see Reason
	Failed Outcome = "failed"
)

// Reason explains a Failed outcome
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonHoneypot     Reason = "honeypot"
	ReasonTooFast      Reason = "too_fast"
	ReasonRateLimited  Reason = "rate_limited"
	ReasonAlreadyVoted Reason = "already_voted"
	ReasonInvalid      Reason = "invalid"
	ReasonOffline      Reason = "offline"
	ReasonSyncFailed   Reason = "sync_failed"
)

// RateLimitWarning is the only message a gated vote ever shows
const RateLimitWarning = "Slow down! Take a breather 😅"

type Result struct {
	Outcome Outcome
	Reason  Reason
	// Count is the displayed count after the action
	Count int
	Err   error
}

// Recorded reports whether the action is now reflected locally
func (r Result) Recorded() bool {
	return r.Outcome == Confirmed || r.Outcome == OptimisticOnly
}

// Warning is the user-facing text for r, empty when the outcome is silent
func (r Result) Warning() string {
	switch r.Reason {
	case ReasonRateLimited:
		return RateLimitWarning
	case ReasonSyncFailed:
		if r.Outcome == Failed {
			return "Could not save that. Please try again."
		}
	}
	return ""
}
