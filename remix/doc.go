// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package remix is the feature cart: features collected from several designs
into one "dream app" build.

# Cart

The cart is ordered, holds each feature once and at most MaxItems of them.
Add and Remove report false instead of failing. Clear does not ask for
confirmation; callers do.

	cart := remix.NewCart(kv, ids, remix.WithAPI(api))
	cart.Load()
	cart.Add("live-map", remix.Meta{Name: "Live map", SourceSubmission: "hangout-finder"})

# Share Links

ShareURL puts the feature IDs on the remix page as ?features=a,b,c.
LoadFromShareURL adds the ones the cart lacks and returns the address
without the parameter, so importing twice adds nothing.

# Grouping

GroupBySource keys features by source design (submission, then title, then
"Other Features"). Group order and item order follow first appearance, and
Summary relies on that order.

# Submitting

Submit posts the whole cart for moderation. Two submissions per device are
allowed; the server enforces it and the local history mirrors it so the
button can be disabled. A successful submission keeps the cart, clears the
description draft and is added to the history that RemixAgain reads.
*/
package remix
