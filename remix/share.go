// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remix

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultShareBase is the remix page, relative to the site root
	DefaultShareBase = "/remix/"
	// ShareParam carries comma-joined feature IDs
	ShareParam = "features"
)

// ShareURL encodes the cart's feature IDs onto the share base
func (c *Cart) ShareURL() string {
	items := c.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	u, err := url.Parse(c.shareBase)
	if err != nil {
		return c.shareBase + "?" + ShareParam + "=" + url.QueryEscape(strings.Join(ids, ","))
	}
	q := u.Query()
	q.Set(ShareParam, strings.Join(ids, ","))
	u.RawQuery = q.Encode()
	return u.String()
}

// LoadFromShareURL adds every feature in raw's share parameter that the
// cart does not already hold, in the encoded order. It returns raw with the
// parameter removed, so reloading the cleaned address imports nothing.
func (c *Cart) LoadFromShareURL(raw string) (cleaned string, added int, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, 0, fmt.Errorf("invalid share link: %w", err)
	}

	q := u.Query()
	param := q.Get(ShareParam)
	if !q.Has(ShareParam) {
		return raw, 0, nil
	}
	q.Del(ShareParam)
	u.RawQuery = q.Encode()
	cleaned = u.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range strings.Split(param, ",") {
		id = strings.TrimSpace(id)
		if id == "" || c.indexLocked(id) >= 0 {
			continue
		}
		meta := Meta{}
		if c.catalog != nil {
			if m, ok := c.catalog(id); ok {
				meta = m
			}
		}
		if c.addLocked(id, meta) {
			added++
		}
	}
	return cleaned, added, nil
}
