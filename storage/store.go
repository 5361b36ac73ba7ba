// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// ErrUnavailable is returned by backends that cannot be used at all
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key-value backend. Implementations may fail on any call.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}

// KV is the failure-free view that the engines use. See Safe.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Keys() []string
}

// MemoryStore keeps everything in a map
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Safe wraps a Store so that no failure ever reaches the caller. Writes the
// backend rejects are kept in an in-memory overlay for the rest of the
// process, so the session keeps working when the disk does not.
type Safe struct {
	backend Store

	mu      sync.Mutex
	overlay map[string]string
	removed map[string]bool
}

func NewSafe(backend Store) *Safe {
	if backend == nil {
		backend = NewMemoryStore()
	}
	return &Safe{
		backend: backend,
		overlay: make(map[string]string),
		removed: make(map[string]bool),
	}
}

func (s *Safe) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.overlay[key]; ok {
		return v, true
	}
	if s.removed[key] {
		return "", false
	}

	v, ok, err := s.backend.Get(key)
	if err != nil {
		slog.Warn("storage read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *Safe) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.removed, key)
	if err := s.backend.Set(key, value); err != nil {
		slog.Warn("storage write failed, keeping value in memory", "key", key, "error", err)
		s.overlay[key] = value
		return
	}
	delete(s.overlay, key)
}

func (s *Safe) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.overlay, key)
	if err := s.backend.Remove(key); err != nil {
		slog.Warn("storage remove failed, hiding key in memory", "key", key, "error", err)
		s.removed[key] = true
		return
	}
	delete(s.removed, key)
}

func (s *Safe) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.backend.Keys()
	if err != nil {
		slog.Warn("storage key listing failed", "error", err)
		keys = nil
	}

	seen := make(map[string]bool, len(keys)+len(s.overlay))
	out := make([]string, 0, len(keys)+len(s.overlay))
	for _, k := range keys {
		if s.removed[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	for k := range s.overlay {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// GetJSON decodes the value at key into v. A missing or malformed value
// reports false and is treated as no prior state.
func GetJSON(kv KV, key string, v interface{}) bool {
	raw, ok := kv.Get(key)
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("ignoring malformed stored value", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores v at key as JSON
func SetJSON(kv KV, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("failed to encode value for storage", "key", key, "error", err)
		return
	}
	kv.Set(key, string(b))
}
