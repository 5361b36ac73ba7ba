// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package controller ties the client engines to one page session.

A Page owns a voting engine, an upvote tracker, a feedback tracker, a remix
cart and a privacy manager, all built on the same stores. Load restores them when the page is
shown and Save writes them back:

	page := controller.NewPage(kv, jar, controller.WithAPI(api))
	page.Load()
	defer page.Save()

UI events arrive as tagged actions and are routed through a fixed table:

	resp, err := page.Dispatch(ctx, controller.Action{
		Tag:  controller.ActionRemixAdd,
		Data: map[string]string{"id": "live-map", "name": "Live map"},
	})

Unknown tags return ErrUnknownAction, a missing attribute ErrMissingField.
remix-clear and clear-data do nothing unless Data["confirmed"] is "true".

Effects (the fly-to-cart animation and toasts) run after the action has been
applied and cannot change its outcome: a panicking effect is logged and
dropped, and FlyToCart is skipped entirely under ReducedMotion.
*/
package controller
