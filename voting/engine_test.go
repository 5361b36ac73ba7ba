// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/storage"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeAPI struct {
	mu        sync.Mutex
	inserted  []models.VoteInsert
	insertErr error
	counts    []models.VoteCount
	events    []models.VoteEvent
}

func (f *fakeAPI) InsertVote(_ context.Context, v models.VoteInsert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, v)
	return f.insertErr
}

func (f *fakeAPI) VoteCounts(context.Context) ([]models.VoteCount, error) {
	return f.counts, nil
}

func (f *fakeAPI) Subscribe(_ context.Context, onEvent func(models.VoteEvent)) error {
	for _, ev := range f.events {
		onEvent(ev)
	}
	return nil
}

func (f *fakeAPI) inserts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

type fixture struct {
	kv     *storage.Safe
	jar    *storage.Safe
	mirror *storage.CookieMirror
	ids    *identity.Provider
	clock  *fakeClock
	api    *fakeAPI
}

func newFixture() *fixture {
	kv := storage.NewSafe(nil)
	jar := storage.NewSafe(nil)
	clock := newClock()
	return &fixture{
		kv:     kv,
		jar:    jar,
		mirror: storage.NewCookieMirror(storage.VoteCookie, jar).WithClock(clock.Now),
		ids:    identity.NewProvider(kv),
		clock:  clock,
		api:    &fakeAPI{},
	}
}

// engine builds and loads an engine, then moves past the timing check
func (f *fixture) engine(cfg Config, withAPI bool) *Engine {
	opts := []Option{WithConfig(cfg), WithClock(f.clock.Now)}
	if withAPI {
		opts = append(opts, WithAPI(f.api))
	}
	e := NewEngine(f.kv, f.mirror, f.ids, opts...)
	e.Load()
	f.clock.Advance(cfg.MinTiming + time.Millisecond)
	return e
}

func TestVoteIsIdempotent(t *testing.T) {
	f := newFixture()
	e := f.engine(DefaultConfig(), true)
	ctx := context.Background()

	first := e.Vote(ctx, "design-1", models.CategoryFavorite, "")
	second := e.Vote(ctx, "design-1", models.CategoryFavorite, "")

	assert.Equal(t, Confirmed, first.Outcome)
	assert.Equal(t, Failed, second.Outcome)
	assert.Equal(t, ReasonAlreadyVoted, second.Reason)
	assert.Empty(t, second.Warning())

	assert.Equal(t, 1, e.Count("design-1", models.CategoryFavorite))
	assert.Equal(t, []string{models.CategoryFavorite}, e.VotedCategories("design-1"))
	assert.Equal(t, 1, f.api.inserts())
}

func TestConcurrentDoubleClick(t *testing.T) {
	f := newFixture()
	e := f.engine(DefaultConfig(), true)

	var wg sync.WaitGroup
	results := make([]Result, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Vote(context.Background(), "design-1", models.CategoryInclusive, "")
		}(i)
	}
	wg.Wait()

	recorded := 0
	for _, r := range results {
		if r.Recorded() {
			recorded++
		}
	}
	assert.Equal(t, 1, recorded)
	assert.Equal(t, 1, e.Count("design-1", models.CategoryInclusive))
	assert.Equal(t, 1, f.api.inserts())
}

func TestRateLimitWindowReset(t *testing.T) {
	f := newFixture()
	cfg := Config{MaxVotes: 2, Window: time.Second, MinTiming: 0}
	e := f.engine(cfg, false)
	ctx := context.Background()

	assert.True(t, e.Vote(ctx, "a", models.CategoryFavorite, "").Recorded())
	assert.True(t, e.Vote(ctx, "b", models.CategoryFavorite, "").Recorded())

	third := e.Vote(ctx, "c", models.CategoryFavorite, "")
	assert.Equal(t, Failed, third.Outcome)
	assert.Equal(t, ReasonRateLimited, third.Reason)
	assert.Equal(t, RateLimitWarning, third.Warning())
	assert.False(t, e.HasVoted("c", models.CategoryFavorite))

	f.clock.Advance(time.Second + time.Millisecond)
	fourth := e.Vote(ctx, "c", models.CategoryFavorite, "")
	assert.True(t, fourth.Recorded())

	var s State
	require.True(t, storage.GetJSON(f.kv, storage.KeyVotes, &s))
	assert.Equal(t, 1, s.RateLimit.Count)
	assert.True(t, s.RateLimit.WindowStart.Equal(f.clock.Now()))
}

func TestSilentGates(t *testing.T) {
	f := newFixture()
	e := NewEngine(f.kv, f.mirror, f.ids, WithClock(f.clock.Now), WithAPI(f.api))
	e.Load()
	ctx := context.Background()

	// Too soon after load
	r := e.Vote(ctx, "design-1", models.CategoryFavorite, "")
	assert.Equal(t, ReasonTooFast, r.Reason)
	assert.Empty(t, r.Warning())

	f.clock.Advance(DefaultMinTiming + time.Millisecond)

	r = e.Vote(ctx, "design-1", models.CategoryFavorite, "http://spam.example")
	assert.Equal(t, ReasonHoneypot, r.Reason)
	assert.Empty(t, r.Warning())

	r = e.Vote(ctx, "design-1", "best", "")
	assert.Equal(t, ReasonInvalid, r.Reason)

	assert.False(t, e.HasVoted("design-1", models.CategoryFavorite))
	assert.Zero(t, f.api.inserts())
}

func TestDuplicateConflictIsSuccess(t *testing.T) {
	f := newFixture()
	f.api.insertErr = &client.APIError{Kind: client.KindDuplicate, Status: http.StatusConflict, Message: "Already voted"}
	e := f.engine(DefaultConfig(), true)

	assert.True(t, e.SyncVote(context.Background(), "design-1", models.CategoryInnovative))

	r := e.Vote(context.Background(), "design-2", models.CategoryInnovative, "")
	assert.Equal(t, Confirmed, r.Outcome)
}

func TestSyncFailureKeepsLocalVote(t *testing.T) {
	f := newFixture()
	f.api.insertErr = &client.APIError{Kind: client.KindNetwork, Err: errors.New("connection refused")}
	e := f.engine(DefaultConfig(), true)

	r := e.Vote(context.Background(), "design-1", models.CategoryFavorite, "")
	assert.Equal(t, OptimisticOnly, r.Outcome)
	assert.Equal(t, ReasonSyncFailed, r.Reason)
	assert.Empty(t, r.Warning())
	assert.Equal(t, 1, r.Count)
	assert.True(t, e.HasVoted("design-1", models.CategoryFavorite))

	// Survives a reload
	reloaded := f.engine(DefaultConfig(), true)
	assert.True(t, reloaded.HasVoted("design-1", models.CategoryFavorite))
}

func TestOfflineVote(t *testing.T) {
	f := newFixture()
	e := f.engine(DefaultConfig(), false)

	r := e.Vote(context.Background(), "design-1", models.CategoryFavorite, "")
	assert.Equal(t, OptimisticOnly, r.Outcome)
	assert.Equal(t, ReasonOffline, r.Reason)
	assert.False(t, e.SyncVote(context.Background(), "design-1", models.CategoryFavorite))
}

func TestLoadFallsBackToCookie(t *testing.T) {
	f := newFixture()
	e := f.engine(DefaultConfig(), false)
	e.Vote(context.Background(), "design-1", models.CategoryFavorite, "")
	deviceID := e.DeviceID()

	// Primary copy lost
	f.kv.Remove(storage.KeyVotes)

	restored := f.engine(DefaultConfig(), false)
	assert.True(t, restored.HasVoted("design-1", models.CategoryFavorite))
	assert.Equal(t, deviceID, restored.DeviceID())

	_, ok := f.kv.Get(storage.KeyVotes)
	assert.True(t, ok, "state is written back to the primary store")
}

func TestLoadIgnoresMalformedState(t *testing.T) {
	f := newFixture()
	f.kv.Set(storage.KeyVotes, "{not json")
	f.jar.Set(storage.VoteCookie, "ts_v2=garbage; Path=/")

	e := f.engine(DefaultConfig(), false)
	assert.Empty(t, e.VotedItems())
	assert.True(t, e.Vote(context.Background(), "design-1", models.CategoryFavorite, "").Recorded())
}

func TestCountsAndRealtime(t *testing.T) {
	f := newFixture()
	f.api.counts = []models.VoteCount{
		{SubmissionID: "design-1", Category: models.CategoryFavorite, Count: 7},
		{SubmissionID: "design-2", Category: models.CategoryInclusive, Count: 2},
	}
	f.api.events = []models.VoteEvent{
		{SubmissionID: "design-1", Category: models.CategoryFavorite},
		{SubmissionID: "design-3", Category: models.CategoryInnovative},
	}
	e := f.engine(DefaultConfig(), true)

	require.NoError(t, e.LoadCounts(context.Background()))
	assert.Equal(t, 7, e.Count("design-1", models.CategoryFavorite))
	assert.Equal(t, 2, e.Count("design-2", models.CategoryInclusive))

	var updates []int
	require.NoError(t, e.Subscribe(context.Background(), func(_ models.VoteEvent, count int) {
		updates = append(updates, count)
	}))
	assert.Equal(t, []int{8, 1}, updates)
	assert.Equal(t, 8, e.Count("design-1", models.CategoryFavorite))
}

func TestClear(t *testing.T) {
	f := newFixture()
	e := f.engine(DefaultConfig(), false)
	e.Vote(context.Background(), "design-1", models.CategoryFavorite, "")

	e.Clear()

	assert.False(t, e.HasVoted("design-1", models.CategoryFavorite))
	_, ok := f.kv.Get(storage.KeyVotes)
	assert.False(t, ok)
	assert.False(t, f.mirror.Present())
}
