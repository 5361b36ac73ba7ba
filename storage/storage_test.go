// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails every call while broken is set
type flakyStore struct {
	*MemoryStore
	broken bool
}

var errBroken = errors.New("quota exceeded")

func (f *flakyStore) Get(key string) (string, bool, error) {
	if f.broken {
		return "", false, errBroken
	}
	return f.MemoryStore.Get(key)
}

func (f *flakyStore) Set(key, value string) error {
	if f.broken {
		return errBroken
	}
	return f.MemoryStore.Set(key, value)
}

func (f *flakyStore) Remove(key string) error {
	if f.broken {
		return errBroken
	}
	return f.MemoryStore.Remove(key)
}

func (f *flakyStore) Keys() ([]string, error) {
	if f.broken {
		return nil, errBroken
	}
	return f.MemoryStore.Keys()
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "1"))
	v, ok, err := s.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Remove("a"))
	_, ok, _ = s.Get("a")
	assert.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv, err := NewSQLiteStore(db, "kv")
	require.NoError(t, err)
	jar, err := NewSQLiteStore(db, "cookies")
	require.NoError(t, err)

	require.NoError(t, kv.Set(KeyDeviceID, "first"))
	require.NoError(t, kv.Set(KeyDeviceID, "second"))
	require.NoError(t, kv.Set(KeyTheme, "dark"))

	v, ok, err := kv.Get(KeyDeviceID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyDeviceID, KeyTheme}, keys)

	// Tables are independent
	_, ok, err = jar.Get(KeyDeviceID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Remove(KeyDeviceID))
	_, ok, err = kv.Get(KeyDeviceID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewSQLiteStore(db, "kv; DROP TABLE kv")
	assert.Error(t, err)
}

func TestSafeDegradesToMemory(t *testing.T) {
	backend := &flakyStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, backend.Set("persisted", "yes"))

	s := NewSafe(backend)
	backend.broken = true

	// Reads fail quietly
	_, ok := s.Get("persisted")
	assert.False(t, ok)

	// Writes land in the overlay
	s.Set(KeyRemixCart, "[]")
	v, ok := s.Get(KeyRemixCart)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.Equal(t, []string{KeyRemixCart}, s.Keys())

	// Removal hides the backend copy even though the backend refused it
	s.Remove("persisted")
	backend.broken = false
	_, ok = s.Get("persisted")
	assert.False(t, ok)
	assert.NotContains(t, s.Keys(), "persisted")

	// Once the backend recovers, a successful write clears the overlay
	s.Set(KeyRemixCart, `[{"id":"a"}]`)
	stored, ok, err := backend.Get(KeyRemixCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, stored)
}

func TestJSONHelpers(t *testing.T) {
	s := NewSafe(nil)

	var out map[string]int
	assert.False(t, GetJSON(s, "missing", &out))

	s.Set("bad", "{not json")
	assert.False(t, GetJSON(s, "bad", &out))

	SetJSON(s, "good", map[string]int{"a": 1})
	require.True(t, GetJSON(s, "good", &out))
	assert.Equal(t, 1, out["a"])
}

func TestCookieMirror(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	jar := NewSafe(nil)
	m := NewCookieMirror(VoteCookie, jar).WithClock(clock)

	_, ok := m.Load()
	assert.False(t, ok)

	data := []byte(`{"votes":{"design-1":{"categories":{"favorite":true}}}}`)
	m.Save(data)

	line, ok := jar.Get(VoteCookie)
	require.True(t, ok)
	assert.Contains(t, line, "Max-Age=15552000")
	assert.Contains(t, line, "Path=/")
	assert.Contains(t, line, "SameSite=Lax")
	assert.True(t, strings.HasPrefix(line, VoteCookie+"="))

	got, ok := m.Load()
	require.True(t, ok)
	assert.Equal(t, data, got)

	// 180 days later the cookie is gone
	now = now.Add(CookieMaxAge * time.Second)
	_, ok = m.Load()
	assert.False(t, ok)
	assert.False(t, m.Present())
}

func TestCookieMirrorMalformed(t *testing.T) {
	jar := NewSafe(nil)
	m := NewCookieMirror(VoteCookie, jar)

	jar.Set(VoteCookie, VoteCookie+"=%%%not-base64%%%; Path=/")
	_, ok := m.Load()
	assert.False(t, ok)

	m.Save([]byte("{}"))
	m.Clear()
	assert.False(t, m.Present())
}

func TestCookieAttributes(t *testing.T) {
	m := NewCookieMirror(VoteCookie, NewSafe(nil))
	c := m.Cookie([]byte("{}"))

	assert.Equal(t, "/", c.Path)
	assert.Equal(t, CookieMaxAge, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "e30=", c.Value)
}
