// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package privacy shows and deletes everything the gallery keeps about a
device.

Categories groups the storage keys by what they hold (votes, device ID,
feedback, remix, preferences, viewing history and the upvote and published
remix records). Feedback drafts are found by the storage.PrefixFeedbackDraft
prefix and the vote cookie mirror is reported as "cookie:ts_v2".

	m := privacy.NewManager(kv, mirror, ids,
		privacy.WithAPI(api),
		privacy.WithReset(engine.Clear, upvotes.Clear, cart.Reset))
	for _, r := range m.Inventory() {
		fmt.Println(r.Label, r.HumanSize(), r.Summary)
	}
	res := m.ClearAll(ctx)

ClearAll reads the device ID first, removes every key, resets the
registered engines, forgets the ID and only then asks the server to delete
that device's rows. The server call is best-effort: local data is gone
either way and the next GetOrCreate produces a new device ID.
*/
package privacy
