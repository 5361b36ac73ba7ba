// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/storage"
)

// Defaults for the anti-abuse checks
const (
	DefaultMaxVotes  = 30
	DefaultWindow    = 10 * time.Minute
	DefaultMinTiming = 1500 * time.Millisecond
)

type Config struct {
	MaxVotes int
	Window   time.Duration
	// MinTiming is how long after Load a vote is accepted; zero disables the check
	MinTiming time.Duration
}

func DefaultConfig() Config {
	return Config{MaxVotes: DefaultMaxVotes, Window: DefaultWindow, MinTiming: DefaultMinTiming}
}

// API is the server side of voting. *client.Client satisfies it.
type API interface {
	InsertVote(ctx context.Context, vote models.VoteInsert) error
	VoteCounts(ctx context.Context) ([]models.VoteCount, error)
	Subscribe(ctx context.Context, onEvent func(models.VoteEvent)) error
}

type countKey struct {
	item     string
	category string
}

// Engine records this device's category votes. Votes are applied locally
// first and then synced; a failed sync never undoes the local vote.
type Engine struct {
	cfg    Config
	kv     storage.KV
	mirror *storage.CookieMirror
	ids    *identity.Provider
	api    API
	now    func() time.Time

	mu       sync.Mutex
	loadedAt time.Time
	state    State
	counts   map[countKey]int
}

type Option func(*Engine)

// WithAPI enables server sync; without it the engine is local-only
func WithAPI(api API) Option {
	return func(e *Engine) { e.api = api }
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(kv storage.KV, mirror *storage.CookieMirror, ids *identity.Provider, opts ...Option) *Engine {
	e := &Engine{
		cfg:    DefaultConfig(),
		kv:     kv,
		mirror: mirror,
		ids:    ids,
		now:    time.Now,
		counts: make(map[countKey]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = newState(e.now())
	return e
}

// Load restores state from the store, falling back to the cookie mirror, and
// starts the timing check clock.
func (e *Engine) Load() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.state = e.readState(now)
	e.state.DeviceID = e.ids.GetOrCreate()
	e.loadedAt = now
	e.saveLocked()
}

func (e *Engine) readState(now time.Time) State {
	var s State
	if storage.GetJSON(e.kv, storage.KeyVotes, &s) {
		s.normalize(now)
		return s
	}

	if e.mirror != nil {
		if raw, ok := e.mirror.Load(); ok {
			var fromCookie State
			if err := json.Unmarshal(raw, &fromCookie); err == nil {
				slog.Info("restored vote state from cookie mirror", "designs", len(fromCookie.Votes))
				fromCookie.normalize(now)
				return fromCookie
			}
			slog.Warn("ignoring malformed vote cookie")
		}
	}

	return newState(now)
}

// Save persists state to the store and the cookie mirror
func (e *Engine) Save() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveLocked()
}

func (e *Engine) saveLocked() {
	b, err := json.Marshal(e.state)
	if err != nil {
		slog.Warn("failed to encode vote state", "error", err)
		return
	}
	e.kv.Set(storage.KeyVotes, string(b))
	if e.mirror != nil {
		e.mirror.Save(b)
	}
}

// Vote casts one category vote for itemID. honeypot is the value of the
// hidden form field and must be empty.
func (e *Engine) Vote(ctx context.Context, itemID, category, honeypot string) Result {
	if itemID == "" || !models.IsCategory(category) {
		return Result{Outcome: Failed, Reason: ReasonInvalid}
	}

	e.mu.Lock()

	if honeypot != "" {
		e.mu.Unlock()
		slog.Debug("honeypot triggered")
		return Result{Outcome: Failed, Reason: ReasonHoneypot}
	}

	now := e.now()
	if e.cfg.MinTiming > 0 && now.Sub(e.loadedAt) <= e.cfg.MinTiming {
		e.mu.Unlock()
		slog.Debug("timing validation failed")
		return Result{Outcome: Failed, Reason: ReasonTooFast}
	}

	if !e.allowLocked(now) {
		e.mu.Unlock()
		slog.Info("vote rate limited", "item", itemID)
		return Result{Outcome: Failed, Reason: ReasonRateLimited}
	}

	key := countKey{itemID, category}
	if e.hasVotedLocked(itemID, category) {
		count := e.counts[key]
		e.mu.Unlock()
		return Result{Outcome: Failed, Reason: ReasonAlreadyVoted, Count: count}
	}

	// Optimistic local record
	rec := e.state.Votes[itemID]
	if rec == nil {
		rec = &VoteRecord{Categories: make(map[string]bool), Timestamp: now.UTC()}
		e.state.Votes[itemID] = rec
	}
	rec.Categories[category] = true
	e.counts[key]++
	count := e.counts[key]
	e.saveLocked()
	e.mu.Unlock()

	if e.api == nil {
		return Result{Outcome: OptimisticOnly, Reason: ReasonOffline, Count: count}
	}
	if !e.SyncVote(ctx, itemID, category) {
		return Result{Outcome: OptimisticOnly, Reason: ReasonSyncFailed, Count: count}
	}
	return Result{Outcome: Confirmed, Count: count}
}

// allowLocked applies the rate-limit window and counts the attempt
func (e *Engine) allowLocked(now time.Time) bool {
	rl := &e.state.RateLimit
	if now.Sub(rl.WindowStart) > e.cfg.Window {
		*rl = RateLimitWindow{Count: 0, WindowStart: now.UTC()}
	}
	if rl.Count >= e.cfg.MaxVotes {
		return false
	}
	rl.Count++
	e.saveLocked()
	return true
}

// SyncVote inserts the vote server-side. A vote the server already holds
// counts as success.
func (e *Engine) SyncVote(ctx context.Context, itemID, category string) bool {
	if e.api == nil {
		return false
	}

	err := e.api.InsertVote(ctx, models.VoteInsert{
		SubmissionID:     itemID,
		Category:         category,
		VoterFingerprint: e.DeviceID(),
	})
	switch {
	case err == nil:
		return true
	case errors.Is(err, client.ErrDuplicate):
		slog.Debug("vote already recorded", "item", itemID, "category", category)
		return true
	default:
		slog.Warn("vote sync failed", "item", itemID, "category", category, "error", err)
		return false
	}
}

// HasVoted is a pure lookup
func (e *Engine) HasVoted(itemID, category string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasVotedLocked(itemID, category)
}

func (e *Engine) hasVotedLocked(itemID, category string) bool {
	rec := e.state.Votes[itemID]
	return rec != nil && rec.Categories[category]
}

// VotedCategories lists itemID's voted categories in display order
func (e *Engine) VotedCategories(itemID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []string
	for _, c := range models.Categories {
		if e.hasVotedLocked(itemID, c) {
			out = append(out, c)
		}
	}
	return out
}

// VotedItems lists every design voted on, sorted
func (e *Engine) VotedItems() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]string, 0, len(e.state.Votes))
	for id := range e.state.Votes {
		items = append(items, id)
	}
	sort.Strings(items)
	return items
}

// Count is the displayed count for one design and category
func (e *Engine) Count(itemID, category string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[countKey{itemID, category}]
}

// LoadCounts replaces displayed counts with the server aggregate
func (e *Engine) LoadCounts(ctx context.Context) error {
	if e.api == nil {
		return nil
	}

	rows, err := e.api.VoteCounts(ctx)
	if err != nil {
		slog.Warn("failed to load vote counts", "error", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts = make(map[countKey]int, len(rows))
	for _, r := range rows {
		e.counts[countKey{r.SubmissionID, r.Category}] = r.Count
	}
	return nil
}

// Subscribe increments displayed counts from the realtime feed until ctx is
// done. Events are not matched against this device's own optimistic
// increments, so a local vote may be counted twice until the next LoadCounts.
func (e *Engine) Subscribe(ctx context.Context, onUpdate func(ev models.VoteEvent, count int)) error {
	if e.api == nil {
		return nil
	}
	return e.api.Subscribe(ctx, func(ev models.VoteEvent) {
		count := e.Apply(ev)
		if onUpdate != nil {
			onUpdate(ev, count)
		}
	})
}

// Apply counts one realtime insert and returns the new displayed count
func (e *Engine) Apply(ev models.VoteEvent) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := countKey{ev.SubmissionID, ev.Category}
	e.counts[key]++
	return e.counts[key]
}

// DeviceID is the identity votes are deduplicated by
func (e *Engine) DeviceID() string {
	e.mu.Lock()
	id := e.state.DeviceID
	e.mu.Unlock()
	if id == "" {
		id = e.ids.GetOrCreate()
	}
	return id
}

// Clear drops every local vote, the stored state and the cookie mirror.
// Displayed counts are left alone since they come from the server.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = newState(e.now())
	e.kv.Remove(storage.KeyVotes)
	if e.mirror != nil {
		e.mirror.Clear()
	}
}
