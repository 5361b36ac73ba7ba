// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remix

import (
	"sync"
	"time"

	"github.com/thirdspaces/gallery/storage"
)

// DefaultDraftDelay is how long typing must pause before the description is saved
const DefaultDraftDelay = 400 * time.Millisecond

// Draft autosaves the remix description with a debounce and remembers the
// last author name used
type Draft struct {
	kv    storage.KV
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *string
}

func NewDraft(kv storage.KV, delay time.Duration) *Draft {
	return &Draft{kv: kv, delay: delay}
}

// Description returns the latest text, saved or not
func (d *Draft) Description() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return *d.pending
	}
	v, _ := d.kv.Get(storage.KeyRemixDescription)
	return v
}

// SetDescription schedules a save; each call restarts the delay
func (d *Draft) SetDescription(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.Flush)
}

// Flush saves a pending description now. An empty one removes the key.
func (d *Draft) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending == nil {
		return
	}
	if *d.pending == "" {
		d.kv.Remove(storage.KeyRemixDescription)
	} else {
		d.kv.Set(storage.KeyRemixDescription, *d.pending)
	}
	d.pending = nil
}

// ClearDescription drops both the pending and the saved description
func (d *Draft) ClearDescription() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.kv.Remove(storage.KeyRemixDescription)
}

func (d *Draft) Author() string {
	v, _ := d.kv.Get(storage.KeyRemixAuthor)
	return v
}

func (d *Draft) SetAuthor(name string) {
	if name == "" {
		d.kv.Remove(storage.KeyRemixAuthor)
		return
	}
	d.kv.Set(storage.KeyRemixAuthor, name)
}
