// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thirdspaces/gallery/storage"
)

var uuidShape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestGetOrCreateIsStable(t *testing.T) {
	kv := storage.NewSafe(nil)
	p := NewProvider(kv)

	id := p.GetOrCreate()
	require.NotEmpty(t, id)
	assert.Regexp(t, uuidShape, id)
	assert.Equal(t, id, p.GetOrCreate())

	// A second provider over the same store sees the same ID
	assert.Equal(t, id, NewProvider(kv).GetOrCreate())

	stored, ok := kv.Get(storage.KeyDeviceID)
	assert.True(t, ok)
	assert.Equal(t, id, stored)
}

func TestForgetForcesRegeneration(t *testing.T) {
	p := NewProvider(storage.NewSafe(nil))

	before := p.GetOrCreate()
	p.Forget()

	_, ok := p.Current()
	assert.False(t, ok)

	after := p.GetOrCreate()
	assert.NotEqual(t, before, after)
}

func TestFallbackWhenRandomFails(t *testing.T) {
	p := NewProvider(storage.NewSafe(nil))
	p.gen = func() (uuid.UUID, error) { return uuid.Nil, errors.New("no entropy") }
	p.now = func() time.Time { return time.UnixMilli(1760000000000) }

	id := p.GetOrCreate()
	assert.Regexp(t, uuidShape, id)

	cur, ok := p.Current()
	assert.True(t, ok)
	assert.Equal(t, id, cur)
}
