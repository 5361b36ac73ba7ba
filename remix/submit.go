// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remix

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/storage"
)

// SubmitAPI posts a build for moderation. *client.Client satisfies it.
type SubmitAPI interface {
	SubmitRemix(ctx context.Context, req models.RemixRequest) (models.SubmissionResponse, error)
}

// Messages shown for refused submissions
const (
	msgEmptyCart   = "Add some features before submitting."
	msgQuotaUsed   = "You've already submitted 2 builds. Thanks for remixing!"
	msgUnavailable = "Remix submission is not available right now."
)

// SubmitResult is the outcome of Submit. Error is safe to show.
type SubmitResult struct {
	Success   bool
	Reference string
	Error     string
	Err       error
}

// SubmittedRemix is a read-only history entry for a successful submission
type SubmittedRemix struct {
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submittedAt"`
	Features    []Item    `json:"features"`
	UserNote    string    `json:"userNote"`
}

// Age is a relative time like "3 days ago"
func (s SubmittedRemix) Age(now time.Time) string {
	return humanize.RelTime(s.SubmittedAt, now, "ago", "from now")
}

// Submit posts the cart for moderation. The server enforces the real quota
// and rate limit; the local history check only saves a round trip. On
// success the description draft is cleared but the cart is kept.
func (c *Cart) Submit(ctx context.Context, note, author string) SubmitResult {
	items := c.Items()
	if len(items) == 0 {
		return SubmitResult{Error: msgEmptyCart}
	}
	if c.SubmittedCount() >= MaxSubmissions {
		return SubmitResult{Error: msgQuotaUsed}
	}
	if c.api == nil {
		return SubmitResult{Error: msgUnavailable}
	}

	deviceID := c.ids.GetOrCreate()
	if deviceID == "" {
		return SubmitResult{Error: msgUnavailable}
	}

	note = strings.TrimSpace(note)
	author = strings.TrimSpace(author)
	if author == "" {
		author = "Anonymous"
	}

	features := make([]models.RemixFeature, len(items))
	for i, it := range items {
		features[i] = models.RemixFeature{
			ID:               it.ID,
			Name:             it.Name,
			Icon:             it.Icon,
			SourceSubmission: it.SourceSubmission,
			SourceTitle:      it.SourceTitle,
		}
	}

	resp, err := c.api.SubmitRemix(ctx, models.RemixRequest{
		DeviceID:   deviceID,
		AuthorName: author,
		UserNote:   note,
		Features:   features,
	})
	if err != nil {
		slog.Warn("remix submission failed", "error", err)
		return SubmitResult{Error: client.UserMessage(err), Err: err}
	}

	c.recordSubmission(SubmittedRemix{
		Reference:   resp.Reference,
		SubmittedAt: c.now().UTC(),
		Features:    items,
		UserNote:    note,
	})
	c.draft.SetAuthor(author)
	c.draft.ClearDescription()

	slog.Info("remix submitted", "reference", resp.Reference, "features", len(items))
	return SubmitResult{Success: true, Reference: resp.Reference}
}

// ConfirmationText is the message shown after a successful submission
func ConfirmationText(items []Item, reference string) string {
	text := fmt.Sprintf("Your build has been submitted for review! %s from %s",
		plural(len(items), "feature"), plural(CountUniqueSources(items), "design"))
	if reference != "" {
		text += ". Reference: " + reference
	}
	return text + "."
}

func (c *Cart) recordSubmission(s SubmittedRemix) {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := c.submittedLocked()
	history = append(history, s)
	storage.SetJSON(c.kv, storage.KeySubmittedRemixes, history)
}

// Submitted returns the submission history, oldest first
func (c *Cart) Submitted() []SubmittedRemix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submittedLocked()
}

func (c *Cart) submittedLocked() []SubmittedRemix {
	var history []SubmittedRemix
	storage.GetJSON(c.kv, storage.KeySubmittedRemixes, &history)
	return history
}

func (c *Cart) SubmittedCount() int {
	return len(c.Submitted())
}

func (c *Cart) RemainingSubmissions() int {
	if n := MaxSubmissions - c.SubmittedCount(); n > 0 {
		return n
	}
	return 0
}

// RemixAgain replaces the cart with the features of a past submission. It
// reports false if no submission has that reference.
func (c *Cart) RemixAgain(reference string) bool {
	var found *SubmittedRemix
	history := c.Submitted()
	for i := range history {
		if history[i].Reference == reference {
			found = &history[i]
			break
		}
	}
	if found == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []Item{}
	for _, f := range found.Features {
		c.addLocked(f.ID, Meta{
			Name:             f.Name,
			Icon:             f.Icon,
			SourceSubmission: f.SourceSubmission,
			SourceTitle:      f.SourceTitle,
		})
	}
	c.saveLocked()
	return true
}
