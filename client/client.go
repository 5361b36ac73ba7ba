// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/thirdspaces/gallery/models"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 15 * time.Second

// DeviceHeader carries the device ID on the device data endpoints
const DeviceHeader = "X-Device-UUID"

// Client talks to the gallery API
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	retry   func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry replaces the policy for idempotent reads and realtime reconnects
func WithRetry(policy func() backoff.BackOff) Option {
	return func(c *Client) { c.retry = policy }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		retry:   defaultRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultRetry() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(30*time.Second),
	), 5)
}

// SubmitFeedback posts to submit-feedback
func (c *Client) SubmitFeedback(ctx context.Context, req models.FeedbackRequest) (models.SubmissionResponse, error) {
	var resp models.SubmissionResponse
	err := c.do(ctx, http.MethodPost, "/functions/v1/submit-feedback", req, nil, &resp)
	return resp, err
}

// SubmitRemix posts to submit-remix
func (c *Client) SubmitRemix(ctx context.Context, req models.RemixRequest) (models.SubmissionResponse, error) {
	var resp models.SubmissionResponse
	err := c.do(ctx, http.MethodPost, "/functions/v1/submit-remix", req, nil, &resp)
	return resp, err
}

// SubmitConcern posts to submit-concern
func (c *Client) SubmitConcern(ctx context.Context, req models.ConcernRequest) (models.SubmissionResponse, error) {
	var resp models.SubmissionResponse
	err := c.do(ctx, http.MethodPost, "/functions/v1/submit-concern", req, nil, &resp)
	return resp, err
}

// InsertVote stores one category vote. A vote the server already holds
// fails with ErrDuplicate.
func (c *Client) InsertVote(ctx context.Context, vote models.VoteInsert) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/votes", vote, nil, nil)
}

func (c *Client) UpvoteFeedback(ctx context.Context, feedbackID, deviceID string) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/feedback_upvotes", models.FeedbackUpvoteInsert{
		FeedbackID:       feedbackID,
		VoterFingerprint: deviceID,
	}, nil, nil)
}

func (c *Client) UpvoteRemix(ctx context.Context, remixID, deviceID string) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/remix_upvotes", models.RemixUpvoteInsert{
		RemixID:          remixID,
		VoterFingerprint: deviceID,
	}, nil, nil)
}

// VoteCounts reads the aggregate, retrying transient failures
func (c *Client) VoteCounts(ctx context.Context) ([]models.VoteCount, error) {
	var counts []models.VoteCount

	op := func() error {
		counts = nil
		err := c.do(ctx, http.MethodGet, "/rest/v1/vote_counts", nil, nil, &counts)
		var apiErr *APIError
		if err != nil && errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Debug("vote counts read failed, retrying", "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(c.retry(), ctx), notify); err != nil {
		return nil, err
	}
	return counts, nil
}

// DeviceData counts what the server holds for deviceID
func (c *Client) DeviceData(ctx context.Context, deviceID string) (models.DeviceData, error) {
	var data models.DeviceData
	err := c.do(ctx, http.MethodGet, "/devices/me/data", nil, map[string]string{DeviceHeader: deviceID}, &data)
	return data, err
}

// DeleteDeviceData removes what the server holds for deviceID
func (c *Client) DeleteDeviceData(ctx context.Context, deviceID string) (models.DeleteDataResponse, error) {
	var resp models.DeleteDataResponse
	err := c.do(ctx, http.MethodPost, "/devices/me/delete", nil, map[string]string{DeviceHeader: deviceID}, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers map[string]string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &APIError{Kind: KindTimedOut, Err: err}
		}
		return &APIError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e models.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		kind := kindForStatus(resp.StatusCode)
		if e.Code == models.DuplicateCode {
			kind = KindDuplicate
		}
		return &APIError{Kind: kind, Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &APIError{Kind: KindTimedOut, Err: err}
		}
		return &APIError{Kind: KindServer, Status: resp.StatusCode, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return nil
}

// realtimeURL turns the API base into the websocket feed address
func (c *Client) realtimeURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/realtime/v1/votes")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}
