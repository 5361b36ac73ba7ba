// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

import (
	"sync/atomic"
	"time"

	"github.com/thirdspaces/gallery/feedback"
	"github.com/thirdspaces/gallery/identity"
	"github.com/thirdspaces/gallery/privacy"
	"github.com/thirdspaces/gallery/remix"
	"github.com/thirdspaces/gallery/storage"
	"github.com/thirdspaces/gallery/voting"
)

// API is everything a page talks to the server for. *client.Client
// satisfies it.
type API interface {
	voting.API
	voting.UpvoteAPI
	remix.SubmitAPI
	feedback.API
	privacy.DeleteAPI
}

// Page owns one instance of each engine for a page session. Nothing is
// shared between pages except the stores they are built on.
type Page struct {
	IDs      *identity.Provider
	Votes    *voting.Engine
	Upvotes  *voting.Upvotes
	Feedback *feedback.Tracker
	Cart     *remix.Cart
	Privacy  *privacy.Manager

	effects  Effects
	handlers map[string]handler
	cleared  atomic.Bool
}

type config struct {
	api       API
	voting    voting.Config
	catalog   remix.Catalog
	shareBase string
	effects   Effects
	now       func() time.Time
}

type Option func(*config)

// WithAPI connects the page to the server; without it everything stays local
func WithAPI(api API) Option {
	return func(c *config) { c.api = api }
}

func WithVotingConfig(cfg voting.Config) Option {
	return func(c *config) { c.voting = cfg }
}

func WithCatalog(catalog remix.Catalog) Option {
	return func(c *config) { c.catalog = catalog }
}

func WithShareBase(base string) Option {
	return func(c *config) { c.shareBase = base }
}

func WithEffects(e Effects) Option {
	return func(c *config) { c.effects = e }
}

func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// NewPage builds the engines on kv, with the vote cookie mirror kept in jar
func NewPage(kv, jar storage.KV, opts ...Option) *Page {
	cfg := config{
		voting:    voting.DefaultConfig(),
		shareBase: remix.DefaultShareBase,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ids := identity.NewProvider(kv)
	mirror := storage.NewCookieMirror(storage.VoteCookie, jar).WithClock(cfg.now)

	votingOpts := []voting.Option{voting.WithConfig(cfg.voting), voting.WithClock(cfg.now)}
	cartOpts := []remix.Option{remix.WithShareBase(cfg.shareBase), remix.WithClock(cfg.now)}
	feedbackOpts := []feedback.Option{feedback.WithClock(cfg.now)}
	var upvoteAPI voting.UpvoteAPI
	var deleteAPI []privacy.Option
	if cfg.api != nil {
		votingOpts = append(votingOpts, voting.WithAPI(cfg.api))
		cartOpts = append(cartOpts, remix.WithAPI(cfg.api))
		feedbackOpts = append(feedbackOpts, feedback.WithAPI(cfg.api))
		upvoteAPI = cfg.api
		deleteAPI = append(deleteAPI, privacy.WithAPI(cfg.api))
	}
	if cfg.catalog != nil {
		cartOpts = append(cartOpts, remix.WithCatalog(cfg.catalog))
	}

	p := &Page{
		IDs:      ids,
		Votes:    voting.NewEngine(kv, mirror, ids, votingOpts...),
		Upvotes:  voting.NewUpvotes(kv, ids, upvoteAPI),
		Feedback: feedback.NewTracker(kv, ids, feedbackOpts...),
		Cart:     remix.NewCart(kv, ids, cartOpts...),
		effects:  cfg.effects,
	}
	p.Privacy = privacy.NewManager(kv, mirror, ids,
		append(deleteAPI, privacy.WithReset(p.Votes.Clear, p.Upvotes.Clear, p.Feedback.Clear, p.Cart.Reset))...)
	p.handlers = p.actions()
	return p
}

// Load restores every engine from storage. It starts the vote timing check,
// so call it when the page is shown.
func (p *Page) Load() {
	p.cleared.Store(false)
	p.Votes.Load()
	p.Cart.Load()
}

// Save writes every engine back and flushes a pending description draft.
// After a clear-data action it writes nothing until the next Load.
func (p *Page) Save() {
	if p.cleared.Load() {
		return
	}
	p.Votes.Save()
	p.Cart.Save()
	p.Cart.Draft().Flush()
}
