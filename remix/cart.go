// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remix

import (
	"log/slog"
	"sync"
	"time"

	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/storage"
)

const (
	MaxItems       = models.MaxRemixFeatures
	MaxSubmissions = models.MaxRemixSubmissions
	DefaultIcon    = "🎯"
)

// Item is one collected feature
type Item struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Icon             string    `json:"icon"`
	SourceSubmission string    `json:"sourceSubmission,omitempty"`
	SourceTitle      string    `json:"sourceTitle,omitempty"`
	AddedAt          time.Time `json:"addedAt"`
}

// Meta describes a feature being added
type Meta struct {
	Name             string
	Icon             string
	SourceSubmission string
	SourceTitle      string
}

// Catalog looks up feature metadata by ID, for share-link imports
type Catalog func(featureID string) (Meta, bool)

// Cart is the ordered set of features collected across designs
type Cart struct {
	kv        storage.KV
	ids       *identity.Provider
	api       SubmitAPI
	draft     *Draft
	catalog   Catalog
	shareBase string
	now       func() time.Time

	mu    sync.Mutex
	items []Item
}

type Option func(*Cart)

// WithAPI enables Submit
func WithAPI(api SubmitAPI) Option {
	return func(c *Cart) { c.api = api }
}

func WithCatalog(catalog Catalog) Option {
	return func(c *Cart) { c.catalog = catalog }
}

// WithShareBase sets the page share links point at
func WithShareBase(base string) Option {
	return func(c *Cart) { c.shareBase = base }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

func WithDraft(d *Draft) Option {
	return func(c *Cart) { c.draft = d }
}

func NewCart(kv storage.KV, ids *identity.Provider, opts ...Option) *Cart {
	c := &Cart{
		kv:        kv,
		ids:       ids,
		shareBase: DefaultShareBase,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.draft == nil {
		c.draft = NewDraft(kv, DefaultDraftDelay)
	}
	return c
}

// Load restores the cart. Entries past MaxItems, without an ID or repeated
// are dropped.
func (c *Cart) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stored []Item
	storage.GetJSON(c.kv, storage.KeyRemixCart, &stored)

	c.items = c.items[:0]
	seen := make(map[string]bool, len(stored))
	for _, it := range stored {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		if len(c.items) == MaxItems {
			break
		}
		seen[it.ID] = true
		if it.Name == "" {
			it.Name = it.ID
		}
		if it.Icon == "" {
			it.Icon = DefaultIcon
		}
		c.items = append(c.items, it)
	}
}

func (c *Cart) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveLocked()
}

func (c *Cart) saveLocked() {
	if c.items == nil {
		c.items = []Item{}
	}
	storage.SetJSON(c.kv, storage.KeyRemixCart, c.items)
}

// Add appends a feature. It reports false when the feature is already in
// the cart or the cart is full.
func (c *Cart) Add(featureID string, meta Meta) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(featureID, meta)
}

func (c *Cart) addLocked(featureID string, meta Meta) bool {
	if featureID == "" || c.indexLocked(featureID) >= 0 {
		slog.Debug("feature already in cart", "feature", featureID)
		return false
	}
	if len(c.items) >= MaxItems {
		slog.Info("remix cart is full", "feature", featureID)
		return false
	}

	item := Item{
		ID:               featureID,
		Name:             meta.Name,
		Icon:             meta.Icon,
		SourceSubmission: meta.SourceSubmission,
		SourceTitle:      meta.SourceTitle,
		AddedAt:          c.now().UTC(),
	}
	if item.Name == "" {
		item.Name = featureID
	}
	if item.Icon == "" {
		item.Icon = DefaultIcon
	}

	c.items = append(c.items, item)
	c.saveLocked()
	return true
}

// Remove drops a feature, reporting false if it was not there
func (c *Cart) Remove(featureID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(featureID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.saveLocked()
	return true
}

// Toggle removes the feature if present and adds it otherwise. added is
// the state afterwards; ok is false only when an add was refused.
func (c *Cart) Toggle(featureID string, meta Meta) (added, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(featureID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.saveLocked()
		return false, true
	}
	if !c.addLocked(featureID, meta) {
		return false, false
	}
	return true, true
}

// Clear empties the cart. Confirming with the user is the caller's job.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []Item{}
	c.saveLocked()
}

func (c *Cart) Has(featureID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexLocked(featureID) >= 0
}

// Items returns a copy of the cart in insertion order
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) CountUniqueSources() int {
	return CountUniqueSources(c.Items())
}

// Draft is the autosaved description and author
func (c *Cart) Draft() *Draft {
	return c.draft
}

// Reset forgets the cart, the draft and the submission history
func (c *Cart) Reset() {
	c.draft.ClearDescription()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []Item{}
	c.kv.Remove(storage.KeyRemixCart)
	c.kv.Remove(storage.KeySubmittedRemixes)
	c.kv.Remove(storage.KeyRemixAuthor)
}

func (c *Cart) indexLocked(featureID string) int {
	for i, it := range c.items {
		if it.ID == featureID {
			return i
		}
	}
	return -1
}
