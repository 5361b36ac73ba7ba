// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feedback

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/storage"
)

const (
	MsgThanks    = "Thanks for your feedback!"
	MsgDuplicate = "You already shared feedback for this design!"
	MsgEmpty     = "Please add a comment or select at least one tag"
	MsgNoDesign  = "Pick a design to leave feedback on."

	defaultAuthor = "Anonymous"
)

// API is the server side of feedback. *client.Client satisfies it.
type API interface {
	SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (models.SubmissionResponse, error)
}

// Record is what this device remembers about one reviewed design
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags"`
	Reference string    `json:"reference,omitempty"`
}

// Submission is one filled-in feedback form
type Submission struct {
	DesignID string
	Text     string
	Tags     []string
	Author   string
	Honeypot string
}

// Result is the outcome of Submit. Message is safe to show.
type Result struct {
	Success   bool
	Reference string
	Message   string
	Err       error
}

// Tracker owns storage.KeyFeedback and the feedback draft keys
type Tracker struct {
	kv  storage.KV
	ids *identity.Provider
	api API
	now func() time.Time

	mu sync.Mutex
}

type Option func(*Tracker)

func WithAPI(api API) Option {
	return func(t *Tracker) { t.api = api }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(kv storage.KV, ids *identity.Provider, opts ...Option) *Tracker {
	t := &Tracker{kv: kv, ids: ids, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) load() map[string]Record {
	m := make(map[string]Record)
	storage.GetJSON(t.kv, storage.KeyFeedback, &m)
	return m
}

// Submitted returns the record for a design this device already reviewed
func (t *Tracker) Submitted(designID string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.load()[designID]
	return r, ok
}

// All returns every reviewed design
func (t *Tracker) All() map[string]Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

func draftKey(designID string) string {
	return storage.PrefixFeedbackDraft + designID
}

// SaveDraft keeps unsent text for a design; empty text removes the draft
func (t *Tracker) SaveDraft(designID, text string) {
	if strings.TrimSpace(text) == "" {
		t.kv.Remove(draftKey(designID))
		return
	}
	t.kv.Set(draftKey(designID), text)
}

func (t *Tracker) Draft(designID string) string {
	v, _ := t.kv.Get(draftKey(designID))
	return v
}

// Submit sends one feedback entry. Only one entry per design is allowed.
func (t *Tracker) Submit(ctx context.Context, s Submission) Result {
	if s.DesignID == "" {
		return Result{Message: MsgNoDesign}
	}
	if _, ok := t.Submitted(s.DesignID); ok {
		return Result{Message: MsgDuplicate}
	}

	author := strings.TrimSpace(s.Author)
	if author == "" {
		author = defaultAuthor
	}
	text := strings.TrimSpace(s.Text)
	if text == "" {
		text = strings.TrimSpace(t.Draft(s.DesignID))
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	if text == "" && len(tags) == 0 {
		return Result{Message: MsgEmpty}
	}

	if s.Honeypot != "" {
		slog.Debug("feedback honeypot triggered", "design", s.DesignID)
		return Result{Success: true, Message: MsgThanks}
	}

	var reference string
	if t.api != nil {
		resp, err := t.api.SubmitFeedback(ctx, models.FeedbackRequest{
			SubmissionID: s.DesignID,
			AuthorName:   author,
			FeedbackText: text,
			Tags:         tags,
			DeviceID:     t.ids.GetOrCreate(),
		})
		if err != nil {
			slog.Warn("feedback submission failed", "design", s.DesignID, "error", err)
			return Result{Message: client.UserMessage(err), Err: err}
		}
		reference = resp.Reference
	}

	t.mu.Lock()
	m := t.load()
	m[s.DesignID] = Record{Timestamp: t.now().UTC(), Tags: tags, Reference: reference}
	storage.SetJSON(t.kv, storage.KeyFeedback, m)
	t.mu.Unlock()
	t.kv.Remove(draftKey(s.DesignID))

	msg := MsgThanks
	if reference != "" {
		msg += " Reference: " + reference
	}
	return Result{Success: true, Reference: reference, Message: msg}
}

// Clear forgets every reviewed design and draft
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.kv.Remove(storage.KeyFeedback)
	for _, k := range t.kv.Keys() {
		if strings.HasPrefix(k, storage.PrefixFeedbackDraft) {
			t.kv.Remove(k)
		}
	}
}
