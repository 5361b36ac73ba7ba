// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thirdspaces/gallery/storage"
)

// Provider hands out the device's random identifier. It is generated once and
// never derived from anything about the machine or the user.
type Provider struct {
	kv  storage.KV
	gen func() (uuid.UUID, error)
	now func() time.Time

	mu sync.Mutex
}

func NewProvider(kv storage.KV) *Provider {
	return &Provider{kv: kv, gen: uuid.NewRandom, now: time.Now}
}

// GetOrCreate returns the stored ID, creating and persisting one if needed
func (p *Provider) GetOrCreate() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.kv.Get(storage.KeyDeviceID); ok && id != "" {
		return id
	}

	var id string
	u, err := p.gen()
	if err != nil {
		slog.Warn("secure random source unavailable, using fallback device id", "error", err)
		id = fallbackID(p.now())
	} else {
		id = u.String()
	}

	p.kv.Set(storage.KeyDeviceID, id)
	return id
}

// Current returns the stored ID without creating one
func (p *Provider) Current() (string, bool) {
	id, ok := p.kv.Get(storage.KeyDeviceID)
	return id, ok && id != ""
}

// Forget drops the ID; the next GetOrCreate makes a new one
func (p *Provider) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kv.Remove(storage.KeyDeviceID)
}

// fallbackID is UUID-shaped but built from the clock and math/rand
func fallbackID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 16)
	for len(ts) < 12 {
		ts = "0" + ts
	}
	return fmt.Sprintf("%08x-%04x-4%03x-%04x-%s",
		rand.Uint32(),
		rand.Uint32()&0xffff,
		rand.Uint32()&0x0fff,
		0x8000|rand.Uint32()&0x3fff,
		ts[len(ts)-12:],
	)
}
