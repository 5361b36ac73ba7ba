// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/thirdspaces/gallery/models"
)

// Subscribe delivers every vote-insert event to onEvent until ctx is done,
// reconnecting with backoff when the feed drops. It returns nil on
// cancellation and an error once the retry policy gives up.
func (c *Client) Subscribe(ctx context.Context, onEvent func(models.VoteEvent)) error {
	wsURL, err := c.realtimeURL()
	if err != nil {
		return fmt.Errorf("invalid realtime url: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.timeout}
	b := c.retry()

	for {
		connected, err := c.listen(ctx, &dialer, wsURL, onEvent)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return fmt.Errorf("realtime feed unavailable: %w", err)
		}
		slog.Warn("realtime feed dropped, reconnecting", "error", err, "wait", wait)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// listen reads one connection until it fails. connected reports whether the
// handshake succeeded.
func (c *Client) listen(ctx context.Context, dialer *websocket.Dialer, wsURL string, onEvent func(models.VoteEvent)) (connected bool, err error) {
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	slog.Debug("realtime feed connected", "url", wsURL)
	for {
		var ev models.VoteEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return true, err
		}
		if ev.SubmissionID == "" || ev.Category == "" {
			continue
		}
		onEvent(ev)
	}
}
