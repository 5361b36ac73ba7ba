// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/thirdspaces/gallery/feedback"
	"github.com/thirdspaces/gallery/remix"
	"github.com/thirdspaces/gallery/voting"
)

// Action tags
const (
	ActionVote           = "vote"
	ActionRemixAdd       = "remix-add"
	ActionRemixRemove    = "remix-remove"
	ActionRemixClear     = "remix-clear"
	ActionRemixAgain     = "remix-again"
	ActionRemixSubmit    = "remix-submit"
	ActionFeedbackSubmit = "feedback-submit"
	ActionFeedbackUpvote = "feedback-upvote"
	ActionRemixUpvote    = "remix-upvote"
	ActionClearData      = "clear-data"
)

var (
	ErrUnknownAction = errors.New("controller: unknown action")
	ErrMissingField  = errors.New("controller: missing action field")
	ErrNotConfirmed  = errors.New("controller: action requires confirmation")
)

// Action is a tagged UI event. Data holds the element's attributes, such
// as "id", "category" or "confirmed".
type Action struct {
	Tag  string
	Data map[string]string
}

// Response is what the page shows after an action. Message is the toast
// text and may be empty.
type Response struct {
	OK        bool
	Message   string
	Count     int
	Added     bool
	Reference string
	// Reason is set for votes and upvotes that were not confirmed
	Reason voting.Reason
}

type handler func(ctx context.Context, data map[string]string) (Response, error)

func (p *Page) actions() map[string]handler {
	return map[string]handler{
		ActionVote:           p.vote,
		ActionRemixAdd:       p.remixAdd,
		ActionRemixRemove:    p.remixRemove,
		ActionRemixClear:     p.remixClear,
		ActionRemixAgain:     p.remixAgain,
		ActionRemixSubmit:    p.remixSubmit,
		ActionFeedbackSubmit: p.feedbackSubmit,
		ActionFeedbackUpvote: p.feedbackUpvote,
		ActionRemixUpvote:    p.remixUpvote,
		ActionClearData:      p.clearData,
	}
}

// Actions lists the tags Dispatch accepts
func (p *Page) Actions() []string {
	tags := make([]string, 0, len(p.handlers))
	for tag := range p.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Dispatch applies one action, then runs its presentation effects
func (p *Page) Dispatch(ctx context.Context, a Action) (Response, error) {
	h, ok := p.handlers[a.Tag]
	if !ok {
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Tag)
	}
	data := a.Data
	if data == nil {
		data = map[string]string{}
	}

	resp, err := h(ctx, data)
	if err != nil {
		slog.Debug("action rejected", "action", a.Tag, "error", err)
		return resp, err
	}
	p.toast(ctx, resp.Message)
	return resp, nil
}

func field(data map[string]string, name string) (string, error) {
	v := data[name]
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return v, nil
}

func confirmed(data map[string]string) error {
	if data["confirmed"] != "true" {
		return ErrNotConfirmed
	}
	return nil
}

func (p *Page) vote(ctx context.Context, data map[string]string) (Response, error) {
	id, err := field(data, "id")
	if err != nil {
		return Response{}, err
	}
	category, err := field(data, "category")
	if err != nil {
		return Response{}, err
	}

	res := p.Votes.Vote(ctx, id, category, data["honeypot"])
	return Response{OK: res.Recorded(), Message: res.Warning(), Count: res.Count, Reason: res.Reason}, nil
}

func (p *Page) remixAdd(ctx context.Context, data map[string]string) (Response, error) {
	id, err := field(data, "id")
	if err != nil {
		return Response{}, err
	}

	added, ok := p.Cart.Toggle(id, remix.Meta{
		Name:             data["name"],
		Icon:             data["icon"],
		SourceSubmission: data["source"],
		SourceTitle:      data["source-title"],
	})
	switch {
	case !ok:
		return Response{Message: fmt.Sprintf("Your build is full (%d features max).", remix.MaxItems), Count: p.Cart.Count()}, nil
	case added:
		p.flyToCart(ctx, id)
		return Response{OK: true, Added: true, Message: "Added to your build", Count: p.Cart.Count()}, nil
	default:
		return Response{OK: true, Message: "Removed from your build", Count: p.Cart.Count()}, nil
	}
}

func (p *Page) remixRemove(_ context.Context, data map[string]string) (Response, error) {
	id, err := field(data, "id")
	if err != nil {
		return Response{}, err
	}
	ok := p.Cart.Remove(id)
	return Response{OK: ok, Count: p.Cart.Count()}, nil
}

func (p *Page) remixClear(_ context.Context, data map[string]string) (Response, error) {
	if err := confirmed(data); err != nil {
		return Response{}, err
	}
	p.Cart.Clear()
	return Response{OK: true, Message: "Build cleared"}, nil
}

func (p *Page) remixAgain(_ context.Context, data map[string]string) (Response, error) {
	ref, err := field(data, "reference")
	if err != nil {
		return Response{}, err
	}
	if !p.Cart.RemixAgain(ref) {
		return Response{Message: "That build is no longer in your history."}, nil
	}
	return Response{OK: true, Message: "Loaded your build. Remix away!", Count: p.Cart.Count()}, nil
}

func (p *Page) remixSubmit(ctx context.Context, data map[string]string) (Response, error) {
	res := p.Cart.Submit(ctx, data["note"], data["author"])
	if !res.Success {
		return Response{Message: res.Error, Count: p.Cart.Count()}, nil
	}
	return Response{
		OK:        true,
		Message:   remix.ConfirmationText(p.Cart.Items(), res.Reference),
		Count:     p.Cart.Count(),
		Reference: res.Reference,
	}, nil
}

// feedbackSubmit takes "tags" as a comma-separated list
func (p *Page) feedbackSubmit(ctx context.Context, data map[string]string) (Response, error) {
	id, err := field(data, "id")
	if err != nil {
		return Response{}, err
	}

	var tags []string
	for _, tag := range strings.Split(data["tags"], ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	res := p.Feedback.Submit(ctx, feedback.Submission{
		DesignID: id,
		Text:     data["text"],
		Tags:     tags,
		Author:   data["author"],
		Honeypot: data["honeypot"],
	})
	return Response{OK: res.Success, Message: res.Message, Reference: res.Reference}, nil
}

func (p *Page) feedbackUpvote(ctx context.Context, data map[string]string) (Response, error) {
	id, err := field(data, "id")
	if err != nil {
		return Response{}, err
	}
	return upvoteResponse(p.Upvotes.UpvoteFeedback(ctx, id)), nil
}

func (p *Page) remixUpvote(ctx context.Context, data map[string]string) (Response, error) {
	id, err := field(data, "id")
	if err != nil {
		return Response{}, err
	}
	return upvoteResponse(p.Upvotes.UpvoteRemix(ctx, id)), nil
}

func upvoteResponse(res voting.Result) Response {
	return Response{OK: res.Recorded(), Message: res.Warning(), Reason: res.Reason}
}

func (p *Page) clearData(ctx context.Context, data map[string]string) (Response, error) {
	if err := confirmed(data); err != nil {
		return Response{}, err
	}
	res := p.Privacy.ClearAll(ctx)
	p.cleared.Store(true)
	return Response{
		OK:      true,
		Message: fmt.Sprintf("Deleted %d local entries. %s", res.Local, res.Server.Message),
	}, nil
}
