// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Gallery is the command-line client for the Third Spaces design gallery.

Usage:

	gallery [--config gallery.toml] <command>

Commands:

	vote <design-id> <category>   vote once per design and category
	counts                        vote counts, with your own votes marked
	watch                         stream votes as they arrive
	remix add|remove|clear|list|share|import|describe|submit|history|again
	feedback <design-id>          submit feedback, or save a --draft
	upvote feedback|remix <id>    upvote community content
	concern <type> <details>      raise a privacy or data concern
	data inventory|clear          see or delete everything stored about you
	device                        this device's ID and its server-side rows

Configuration is a TOML file (see gallery.example.toml). A missing default
file means built-in defaults; a missing --config file is an error. All
state lives in the sqlite file named by state_path: one table for storage
keys and one for the vote cookie mirror.
*/
package main
