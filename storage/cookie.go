// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"
)

// CookieMaxAge is 180 days
const CookieMaxAge = 15552000

// CookieMirror keeps a second copy of a small JSON document as a cookie, so
// clearing the primary store alone does not lose it. The cookie line is kept
// in its own KV, playing the part of the browser's cookie jar.
type CookieMirror struct {
	name string
	jar  KV
	now  func() time.Time
}

func NewCookieMirror(name string, jar KV) *CookieMirror {
	return &CookieMirror{name: name, jar: jar, now: time.Now}
}

// WithClock overrides the clock used for expiry
func (c *CookieMirror) WithClock(now func() time.Time) *CookieMirror {
	c.now = now
	return c
}

func (c *CookieMirror) Name() string { return c.name }

// Cookie builds the Set-Cookie value for data
func (c *CookieMirror) Cookie(data []byte) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    base64.StdEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   CookieMaxAge,
		Expires:  c.now().Add(CookieMaxAge * time.Second).UTC(),
		SameSite: http.SameSiteLaxMode,
	}
}

// Save mirrors data
func (c *CookieMirror) Save(data []byte) {
	c.jar.Set(c.name, c.Cookie(data).String())
}

// Load returns the mirrored data if the cookie exists, parses and has not
// expired. An expired cookie is dropped.
func (c *CookieMirror) Load() ([]byte, bool) {
	line, ok := c.jar.Get(c.name)
	if !ok {
		return nil, false
	}

	cookie, err := http.ParseSetCookie(line)
	if err != nil || cookie.Name != c.name {
		slog.Warn("ignoring malformed cookie mirror", "cookie", c.name, "error", err)
		return nil, false
	}
	if !cookie.Expires.IsZero() && !c.now().Before(cookie.Expires) {
		c.jar.Remove(c.name)
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		slog.Warn("ignoring undecodable cookie mirror", "cookie", c.name, "error", err)
		return nil, false
	}
	return data, true
}

// Present reports whether the cookie is set, expired or not
func (c *CookieMirror) Present() bool {
	_, ok := c.jar.Get(c.name)
	return ok
}

// Raw returns the stored cookie line as is
func (c *CookieMirror) Raw() (string, bool) {
	return c.jar.Get(c.name)
}

// Clear expires the cookie immediately
func (c *CookieMirror) Clear() {
	c.jar.Remove(c.name)
}
