// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/remix"
	"github.com/thirdspaces/gallery/storage"
)

type fakeAPI struct {
	mu      sync.Mutex
	votes   []models.VoteInsert
	upvotes []string
	remixes []models.RemixRequest
	notes   []models.FeedbackRequest
	deleted []string
}

func (f *fakeAPI) InsertVote(_ context.Context, v models.VoteInsert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.votes = append(f.votes, v)
	return nil
}

func (f *fakeAPI) VoteCounts(context.Context) ([]models.VoteCount, error) {
	return nil, nil
}

func (f *fakeAPI) Subscribe(ctx context.Context, _ func(models.VoteEvent)) error {
	<-ctx.Done()
	return nil
}

func (f *fakeAPI) UpvoteFeedback(_ context.Context, id, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upvotes = append(f.upvotes, "feedback:"+id)
	return nil
}

func (f *fakeAPI) UpvoteRemix(_ context.Context, id, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upvotes = append(f.upvotes, "remix:"+id)
	return nil
}

func (f *fakeAPI) SubmitRemix(_ context.Context, req models.RemixRequest) (models.SubmissionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remixes = append(f.remixes, req)
	return models.SubmissionResponse{Success: true, Reference: "RX-20261019-AB23"}, nil
}

func (f *fakeAPI) SubmitFeedback(_ context.Context, req models.FeedbackRequest) (models.SubmissionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, req)
	return models.SubmissionResponse{Success: true, Reference: "FB-20261019-CD45"}, nil
}

func (f *fakeAPI) DeleteDeviceData(_ context.Context, id string) (models.DeleteDataResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return models.DeleteDataResponse{Deleted: models.DeviceData{Votes: 1}}, nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type pageFixture struct {
	kv    *storage.Safe
	jar   *storage.Safe
	api   *fakeAPI
	clock *clock
}

func newPageFixture() *pageFixture {
	return &pageFixture{
		kv:    storage.NewSafe(nil),
		jar:   storage.NewSafe(nil),
		api:   &fakeAPI{},
		clock: &clock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)},
	}
}

// page returns a loaded page whose vote timing check has passed
func (f *pageFixture) page(opts ...Option) *Page {
	opts = append([]Option{WithAPI(f.api), WithClock(f.clock.Now)}, opts...)
	p := NewPage(f.kv, f.jar, opts...)
	p.Load()
	f.clock.Advance(2 * time.Second)
	return p
}

func TestActionTable(t *testing.T) {
	p := newPageFixture().page()

	assert.Equal(t, []string{
		ActionClearData,
		ActionFeedbackSubmit,
		ActionFeedbackUpvote,
		ActionRemixAdd,
		ActionRemixAgain,
		ActionRemixClear,
		ActionRemixRemove,
		ActionRemixSubmit,
		ActionRemixUpvote,
		ActionVote,
	}, p.Actions())

	_, err := p.Dispatch(context.Background(), Action{Tag: "remix-explode"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = p.Dispatch(context.Background(), Action{Tag: ActionVote})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestDispatchVote(t *testing.T) {
	f := newPageFixture()
	p := f.page()
	ctx := context.Background()
	vote := Action{Tag: ActionVote, Data: map[string]string{"id": "design-1", "category": models.CategoryFavorite}}

	resp, err := p.Dispatch(ctx, vote)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Count)

	resp, err = p.Dispatch(ctx, vote)
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, 1, resp.Count)
	assert.Len(t, f.api.votes, 1)

	bot := Action{Tag: ActionVote, Data: map[string]string{"id": "design-2", "category": models.CategoryFavorite, "honeypot": "x"}}
	resp, err = p.Dispatch(ctx, bot)
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Empty(t, resp.Message)
}

func TestRemixAddEffects(t *testing.T) {
	var flown, toasts []string
	effects := Effects{
		FlyToCart: func(_ context.Context, id string) { flown = append(flown, id) },
		Toast:     func(_ context.Context, msg string) { toasts = append(toasts, msg) },
	}
	p := newPageFixture().page(WithEffects(effects))
	ctx := context.Background()
	add := Action{Tag: ActionRemixAdd, Data: map[string]string{"id": "map", "name": "Live map", "source": "design-1"}}

	resp, err := p.Dispatch(ctx, add)
	require.NoError(t, err)
	assert.True(t, resp.Added)
	assert.Equal(t, 1, resp.Count)

	resp, err = p.Dispatch(ctx, add)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.False(t, resp.Added)
	assert.Zero(t, resp.Count)

	assert.Equal(t, []string{"map"}, flown)
	assert.Equal(t, []string{"Added to your build", "Removed from your build"}, toasts)
}

func TestEffectsAreOptional(t *testing.T) {
	flown := 0
	reduced := Effects{
		FlyToCart:     func(context.Context, string) { flown++ },
		ReducedMotion: true,
	}
	p := newPageFixture().page(WithEffects(reduced))
	resp, err := p.Dispatch(context.Background(), Action{Tag: ActionRemixAdd, Data: map[string]string{"id": "map"}})
	require.NoError(t, err)
	assert.True(t, resp.Added)
	assert.Zero(t, flown)

	panicky := Effects{
		FlyToCart: func(context.Context, string) { panic("animation broke") },
		Toast:     func(context.Context, string) { panic("toast broke") },
	}
	p = newPageFixture().page(WithEffects(panicky))
	resp, err = p.Dispatch(context.Background(), Action{Tag: ActionRemixAdd, Data: map[string]string{"id": "map"}})
	require.NoError(t, err)
	assert.True(t, resp.Added)
	assert.True(t, p.Cart.Has("map"))
}

func TestConfirmationRequired(t *testing.T) {
	f := newPageFixture()
	p := f.page()
	ctx := context.Background()
	p.Cart.Add("map", remixMeta("Map"))
	f.kv.Set(storage.KeyTheme, "hype")

	for _, tag := range []string{ActionRemixClear, ActionClearData} {
		_, err := p.Dispatch(ctx, Action{Tag: tag})
		assert.ErrorIs(t, err, ErrNotConfirmed, tag)
		_, err = p.Dispatch(ctx, Action{Tag: tag, Data: map[string]string{"confirmed": "yes"}})
		assert.ErrorIs(t, err, ErrNotConfirmed, tag)
	}
	assert.Equal(t, 1, p.Cart.Count())

	resp, err := p.Dispatch(ctx, Action{Tag: ActionRemixClear, Data: map[string]string{"confirmed": "true"}})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Zero(t, p.Cart.Count())
}

func TestSubmitAndRemixAgain(t *testing.T) {
	f := newPageFixture()
	p := f.page()
	ctx := context.Background()
	p.Cart.Add("map", remixMeta("Map"))
	p.Cart.Add("chat", remixMeta("Chat"))

	resp, err := p.Dispatch(ctx, Action{Tag: ActionRemixSubmit, Data: map[string]string{"author": "Sam"}})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "RX-20261019-AB23", resp.Reference)
	assert.Contains(t, resp.Message, "Reference: RX-20261019-AB23")
	require.Len(t, f.api.remixes, 1)
	assert.Equal(t, "Sam", f.api.remixes[0].AuthorName)

	p.Cart.Clear()
	resp, err = p.Dispatch(ctx, Action{Tag: ActionRemixAgain, Data: map[string]string{"reference": "RX-20261019-AB23"}})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Count)

	resp, err = p.Dispatch(ctx, Action{Tag: ActionRemixAgain, Data: map[string]string{"reference": "RX-00000000-XXXX"}})
	require.NoError(t, err)
	assert.False(t, resp.OK)
}

func TestDispatchUpvotes(t *testing.T) {
	f := newPageFixture()
	p := f.page()
	ctx := context.Background()

	resp, err := p.Dispatch(ctx, Action{Tag: ActionFeedbackUpvote, Data: map[string]string{"id": "fb-1"}})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	resp, err = p.Dispatch(ctx, Action{Tag: ActionRemixUpvote, Data: map[string]string{"id": "rx-1"}})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	resp, err = p.Dispatch(ctx, Action{Tag: ActionRemixUpvote, Data: map[string]string{"id": "rx-1"}})
	require.NoError(t, err)
	assert.False(t, resp.OK)

	assert.Equal(t, []string{"feedback:fb-1", "remix:rx-1"}, f.api.upvotes)
	assert.True(t, p.Upvotes.HasUpvotedFeedback("fb-1"))
	assert.True(t, p.Upvotes.HasUpvotedRemix("rx-1"))
}

func TestDispatchFeedback(t *testing.T) {
	f := newPageFixture()
	var toasts []string
	p := f.page(WithEffects(Effects{Toast: func(_ context.Context, msg string) { toasts = append(toasts, msg) }}))
	ctx := context.Background()
	send := Action{Tag: ActionFeedbackSubmit, Data: map[string]string{
		"id":   "design-1",
		"text": "Love the map view",
		"tags": "looks-great, would-share",
	}}

	resp, err := p.Dispatch(ctx, send)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "FB-20261019-CD45", resp.Reference)
	require.Len(t, f.api.notes, 1)
	assert.Equal(t, []string{"looks-great", "would-share"}, f.api.notes[0].Tags)
	assert.Equal(t, p.IDs.GetOrCreate(), f.api.notes[0].DeviceID)

	resp, err = p.Dispatch(ctx, send)
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "You already shared feedback for this design!", resp.Message)
	assert.Len(t, f.api.notes, 1)

	resp, err = p.Dispatch(ctx, Action{Tag: ActionFeedbackSubmit, Data: map[string]string{
		"id": "design-2", "tags": "easy-to-use", "honeypot": "x",
	}})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Len(t, f.api.notes, 1)
	_, stored := p.Feedback.Submitted("design-2")
	assert.False(t, stored)

	assert.Equal(t, []string{
		"Thanks for your feedback! Reference: FB-20261019-CD45",
		"You already shared feedback for this design!",
		"Thanks for your feedback!",
	}, toasts)

	_, err = p.Dispatch(ctx, Action{Tag: ActionFeedbackSubmit})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestClearData(t *testing.T) {
	f := newPageFixture()
	p := f.page()
	ctx := context.Background()

	_, err := p.Dispatch(ctx, Action{Tag: ActionVote, Data: map[string]string{"id": "design-1", "category": models.CategoryInclusive}})
	require.NoError(t, err)
	_, err = p.Dispatch(ctx, Action{Tag: ActionRemixAdd, Data: map[string]string{"id": "map"}})
	require.NoError(t, err)
	_, err = p.Dispatch(ctx, Action{Tag: ActionFeedbackUpvote, Data: map[string]string{"id": "fb-1"}})
	require.NoError(t, err)
	_, err = p.Dispatch(ctx, Action{Tag: ActionFeedbackSubmit, Data: map[string]string{"id": "design-1", "tags": "looks-great"}})
	require.NoError(t, err)
	oldID := p.Votes.DeviceID()

	resp, err := p.Dispatch(ctx, Action{Tag: ActionClearData, Data: map[string]string{"confirmed": "true"}})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Contains(t, resp.Message, "Removed 1 record from our server.")

	assert.Empty(t, f.kv.Keys())
	assert.Empty(t, f.jar.Keys())
	assert.Equal(t, []string{oldID}, f.api.deleted)
	assert.False(t, p.Votes.HasVoted("design-1", models.CategoryInclusive))
	assert.False(t, p.Upvotes.HasUpvotedFeedback("fb-1"))
	assert.Empty(t, p.Feedback.All())
	assert.Zero(t, p.Cart.Count())

	// Saving the cleared page must not bring anything back
	p.Save()
	assert.Empty(t, f.kv.Keys())
	assert.Empty(t, f.jar.Keys())

	assert.NotEqual(t, oldID, p.IDs.GetOrCreate())
}

func TestLoadSaveAcrossPages(t *testing.T) {
	f := newPageFixture()
	p := f.page()
	ctx := context.Background()

	_, err := p.Dispatch(ctx, Action{Tag: ActionVote, Data: map[string]string{"id": "design-1", "category": models.CategoryFavorite}})
	require.NoError(t, err)
	_, err = p.Dispatch(ctx, Action{Tag: ActionRemixAdd, Data: map[string]string{"id": "map", "name": "Map"}})
	require.NoError(t, err)
	p.Cart.Draft().SetDescription("cozy corner")
	p.Save()

	next := f.page()
	assert.True(t, next.Votes.HasVoted("design-1", models.CategoryFavorite))
	assert.True(t, next.Cart.Has("map"))
	assert.Equal(t, "cozy corner", next.Cart.Draft().Description())
	assert.Equal(t, p.Votes.DeviceID(), next.Votes.DeviceID())
}

func remixMeta(name string) remix.Meta {
	return remix.Meta{Name: name}
}
