// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package privacy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/models"
	"github.com/thirdspaces/gallery/storage"
)

var ErrUnknownCategory = errors.New("privacy: unknown data category")

// Messages for the server half of ClearAll
const (
	msgOffline     = "Offline mode. Your data is only stored on this device."
	msgNoDevice    = "No device ID was stored, so there was nothing to remove from our server."
	msgUnreachable = "Could not reach the server. Your local data was still deleted."
)

// DeleteAPI removes server-side rows for a device. *client.Client satisfies it.
type DeleteAPI interface {
	DeleteDeviceData(ctx context.Context, deviceID string) (models.DeleteDataResponse, error)
}

// ServerResult is the outcome of the server deletion. Message is safe to show.
type ServerResult struct {
	Success     bool
	Message     string
	DeletedRows int64
	Err         error
}

// ClearResult reports how many local entries were removed and what the
// server said
type ClearResult struct {
	Local  int
	Server ServerResult
}

// Manager lists and deletes everything stored about the user
type Manager struct {
	kv     storage.KV
	mirror *storage.CookieMirror
	ids    *identity.Provider
	api    DeleteAPI
	resets []func()
}

type Option func(*Manager)

func WithAPI(api DeleteAPI) Option {
	return func(m *Manager) { m.api = api }
}

// WithReset registers in-memory state to drop on ClearAll, such as
// (*voting.Engine).Clear or (*remix.Cart).Reset
func WithReset(fns ...func()) Option {
	return func(m *Manager) { m.resets = append(m.resets, fns...) }
}

// NewManager creates a Manager; mirror may be nil
func NewManager(kv storage.KV, mirror *storage.CookieMirror, ids *identity.Provider, opts ...Option) *Manager {
	m := &Manager{kv: kv, mirror: mirror, ids: ids}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Inventory reports every category, with or without data
func (m *Manager) Inventory() []Report {
	keys := m.kv.Keys()
	reports := make([]Report, 0, len(Categories))
	for _, cat := range Categories {
		r := Report{Category: cat, Entries: m.entries(cat, keys)}
		if r.HasData() {
			r.Summary = cat.summary(r.Entries)
		}
		reports = append(reports, r)
	}
	return reports
}

func (m *Manager) entries(cat Category, keys []string) []Entry {
	var out []Entry
	for _, k := range cat.Keys {
		if v, ok := m.kv.Get(k); ok {
			out = append(out, Entry{Key: k, Value: v, Size: len(v)})
		}
	}
	if cat.Prefix != "" {
		for _, k := range keys {
			if !strings.HasPrefix(k, cat.Prefix) {
				continue
			}
			if v, ok := m.kv.Get(k); ok {
				out = append(out, Entry{Key: k, Value: v, Size: len(v)})
			}
		}
	}
	if cat.Cookie && m.mirror != nil {
		if v, ok := m.mirror.Raw(); ok {
			out = append(out, Entry{Key: "cookie:" + m.mirror.Name(), Value: v, Size: len(v), Cookie: true})
		}
	}
	return out
}

// ClearCategory removes one category's keys and returns how many were present
func (m *Manager) ClearCategory(id string) (int, error) {
	cat, ok := CategoryByID(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	return m.clear(cat, m.kv.Keys()), nil
}

func (m *Manager) clear(cat Category, keys []string) int {
	entries := m.entries(cat, keys)
	for _, e := range entries {
		if e.Cookie {
			m.mirror.Clear()
			continue
		}
		m.kv.Remove(e.Key)
	}
	return len(entries)
}

// ClearAll removes every local key, resets the registered in-memory state
// and then asks the server to delete rows for the old device ID. Local data
// is gone even when the server call fails.
func (m *Manager) ClearAll(ctx context.Context) ClearResult {
	deviceID, _ := m.ids.Current()

	keys := m.kv.Keys()
	removed := 0
	for _, cat := range Categories {
		removed += m.clear(cat, keys)
	}
	for _, reset := range m.resets {
		reset()
	}
	m.ids.Forget()

	slog.Info("local data cleared", "entries", removed)
	return ClearResult{Local: removed, Server: m.clearServer(ctx, deviceID)}
}

func (m *Manager) clearServer(ctx context.Context, deviceID string) ServerResult {
	if m.api == nil {
		return ServerResult{Success: true, Message: msgOffline}
	}
	if deviceID == "" {
		return ServerResult{Success: true, Message: msgNoDevice}
	}

	resp, err := m.api.DeleteDeviceData(ctx, deviceID)
	if err != nil {
		slog.Warn("server data deletion failed", "error", err)
		return ServerResult{Message: msgUnreachable, Err: err}
	}

	d := resp.Deleted
	rows := d.Votes + d.Feedback + d.FeedbackUpvotes + d.Remixes + d.RemixUpvotes + d.Concerns
	noun := "records"
	if rows == 1 {
		noun = "record"
	}
	return ServerResult{
		Success:     true,
		Message:     fmt.Sprintf("Removed %d %s from our server.", rows, noun),
		DeletedRows: rows,
	}
}
