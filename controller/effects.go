// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

import (
	"context"
	"log/slog"
)

// Effects are presentation callbacks run after an action has been applied.
// They receive the dispatch context and should stop when it is done. A nil
// callback is skipped.
type Effects struct {
	// FlyToCart animates a feature into the cart. Skipped under ReducedMotion.
	FlyToCart func(ctx context.Context, featureID string)
	// Toast shows a short message. Under ReducedMotion it still runs; the
	// fade is the callee's concern.
	Toast func(ctx context.Context, message string)

	ReducedMotion bool
}

func (p *Page) flyToCart(ctx context.Context, featureID string) {
	if p.effects.FlyToCart == nil || p.effects.ReducedMotion {
		return
	}
	runEffect("fly-to-cart", func() { p.effects.FlyToCart(ctx, featureID) })
}

func (p *Page) toast(ctx context.Context, message string) {
	if p.effects.Toast == nil || message == "" {
		return
	}
	runEffect("toast", func() { p.effects.Toast(ctx, message) })
}

// runEffect contains a panicking effect; the action it follows has already
// been applied
func runEffect(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("presentation effect panicked", "effect", name, "panic", r)
		}
	}()
	fn()
}
