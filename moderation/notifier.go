// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/sony/gobreaker"
)

// Issue labels moderators filter on
const (
	LabelFeedback = "feedback-review"
	LabelRemix    = "remix-review"
	LabelConcern  = "data-concern"
)

var (
	ErrDisabled    = errors.New("moderation notifier disabled")
	ErrInvalidRepo = errors.New("repository must be owner/name")
)

// Ticket is one moderation issue to open
type Ticket struct {
	Kind     string
	Title    string
	Body     string
	Labels   []string
	RecordID string
}

// Notifier opens moderation tickets in an external tracker and returns the
// ticket URL. Callers treat every error as non-fatal.
type Notifier interface {
	Open(ctx context.Context, t Ticket) (string, error)
}

// Nop is used when no tracker is configured
type Nop struct{}

func (Nop) Open(context.Context, Ticket) (string, error) {
	return "", ErrDisabled
}

// GitHubNotifier opens issues in a GitHub repository. Calls go through a
// circuit breaker so an unreachable API costs nothing after a few failures.
type GitHubNotifier struct {
	client *github.Client
	owner  string
	repo   string
	cb     *gobreaker.CircuitBreaker
}

// NewGitHubNotifier creates a notifier for repo ("owner/name") authenticated
// with token. httpClient may be nil.
func NewGitHubNotifier(httpClient *http.Client, token, repo string) (*GitHubNotifier, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRepo, repo)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "github-issues",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &GitHubNotifier{
		client: github.NewClient(httpClient).WithAuthToken(token),
		owner:  owner,
		repo:   name,
		cb:     cb,
	}, nil
}

// Client exposes the underlying API client (tests point BaseURL at a fake)
func (n *GitHubNotifier) Client() *github.Client {
	return n.client
}

func (n *GitHubNotifier) Open(ctx context.Context, t Ticket) (string, error) {
	res, err := n.cb.Execute(func() (interface{}, error) {
		issue, _, err := n.client.Issues.Create(ctx, n.owner, n.repo, &github.IssueRequest{
			Title:  github.String(t.Title),
			Body:   github.String(t.Body),
			Labels: &t.Labels,
		})
		if err != nil {
			return nil, err
		}
		return issue.GetHTMLURL(), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to open %s issue: %w", t.Kind, err)
	}
	return res.(string), nil
}

// New picks the GitHub notifier when a token is configured and Nop otherwise
func New(token, repo string) (Notifier, error) {
	if token == "" {
		slog.Info("moderation issues disabled (no GitHub token)")
		return Nop{}, nil
	}
	return NewGitHubNotifier(nil, token, repo)
}
