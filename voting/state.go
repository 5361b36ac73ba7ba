// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "time"

// VoteRecord holds the categories voted for one design. A present key means
// the vote was recorded; there is no "voted false".
type VoteRecord struct {
	Categories map[string]bool `json:"categories"`
	Timestamp  time.Time       `json:"timestamp"`
}

// RateLimitWindow counts gated actions since WindowStart
type RateLimitWindow struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"windowStart"`
}

// State is persisted under storage.KeyVotes and mirrored to the vote cookie
type State struct {
	Votes     map[string]*VoteRecord `json:"votes"`
	DeviceID  string                 `json:"deviceId"`
	RateLimit RateLimitWindow        `json:"rateLimit"`
}

func newState(now time.Time) State {
	return State{
		Votes:     make(map[string]*VoteRecord),
		RateLimit: RateLimitWindow{WindowStart: now},
	}
}

// normalize repairs state decoded from older or hand-edited documents
func (s *State) normalize(now time.Time) {
	if s.Votes == nil {
		s.Votes = make(map[string]*VoteRecord)
	}
	for id, rec := range s.Votes {
		if rec == nil {
			delete(s.Votes, id)
			continue
		}
		if rec.Categories == nil {
			rec.Categories = make(map[string]bool)
		}
	}
	if s.RateLimit.WindowStart.IsZero() {
		s.RateLimit = RateLimitWindow{WindowStart: now}
	}
	if s.RateLimit.Count < 0 {
		s.RateLimit.Count = 0
	}
}
