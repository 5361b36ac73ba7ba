// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/storage"
)

// UpvoteAPI is the server side of upvotes. *client.Client satisfies it.
type UpvoteAPI interface {
	UpvoteFeedback(ctx context.Context, feedbackID, deviceID string) error
	UpvoteRemix(ctx context.Context, remixID, deviceID string) error
}

// Upvotes tracks which feedback entries and community remixes this device
// has upvoted. Feedback is marked only once the server confirms; remixes are
// marked first and rolled back if the server rejects the upvote.
type Upvotes struct {
	kv  storage.KV
	ids *identity.Provider
	api UpvoteAPI

	mu sync.Mutex
}

func NewUpvotes(kv storage.KV, ids *identity.Provider, api UpvoteAPI) *Upvotes {
	return &Upvotes{kv: kv, ids: ids, api: api}
}

func (u *Upvotes) load(key string) map[string]bool {
	m := make(map[string]bool)
	storage.GetJSON(u.kv, key, &m)
	return m
}

func (u *Upvotes) HasUpvotedFeedback(feedbackID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.load(storage.KeyFeedbackUpvotes)[feedbackID]
}

func (u *Upvotes) HasUpvotedRemix(remixID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.load(storage.KeyRemixUpvotes)[remixID]
}

// UpvoteFeedback confirms with the server, then marks
func (u *Upvotes) UpvoteFeedback(ctx context.Context, feedbackID string) Result {
	if feedbackID == "" {
		return Result{Outcome: Failed, Reason: ReasonInvalid}
	}
	if u.HasUpvotedFeedback(feedbackID) {
		return Result{Outcome: Failed, Reason: ReasonAlreadyVoted}
	}
	if u.api == nil {
		return Result{Outcome: Failed, Reason: ReasonOffline}
	}

	err := u.api.UpvoteFeedback(ctx, feedbackID, u.ids.GetOrCreate())
	if err != nil && !errors.Is(err, client.ErrDuplicate) {
		slog.Warn("feedback upvote failed", "feedback", feedbackID, "error", err)
		return Result{Outcome: Failed, Reason: ReasonSyncFailed, Err: err}
	}

	u.mark(storage.KeyFeedbackUpvotes, feedbackID, true)
	return Result{Outcome: Confirmed}
}

// UpvoteRemix marks first, then syncs; a rejected upvote is unmarked
func (u *Upvotes) UpvoteRemix(ctx context.Context, remixID string) Result {
	if remixID == "" {
		return Result{Outcome: Failed, Reason: ReasonInvalid}
	}
	if u.HasUpvotedRemix(remixID) {
		return Result{Outcome: Failed, Reason: ReasonAlreadyVoted}
	}
	if u.api == nil {
		return Result{Outcome: Failed, Reason: ReasonOffline}
	}

	u.mark(storage.KeyRemixUpvotes, remixID, true)

	err := u.api.UpvoteRemix(ctx, remixID, u.ids.GetOrCreate())
	switch {
	case err == nil:
		return Result{Outcome: Confirmed}
	case errors.Is(err, client.ErrDuplicate):
		slog.Debug("remix upvote already recorded", "remix", remixID)
		return Result{Outcome: Confirmed}
	default:
		slog.Warn("remix upvote failed", "remix", remixID, "error", err)
		u.mark(storage.KeyRemixUpvotes, remixID, false)
		return Result{Outcome: Failed, Reason: ReasonSyncFailed, Err: err}
	}
}

func (u *Upvotes) mark(key, id string, on bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	m := u.load(key)
	if on {
		m[id] = true
	} else {
		delete(m, id)
	}
	storage.SetJSON(u.kv, key, m)
}

// Clear forgets every upvote
func (u *Upvotes) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.kv.Remove(storage.KeyFeedbackUpvotes)
	u.kv.Remove(storage.KeyRemixUpvotes)
}
