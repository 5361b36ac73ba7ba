// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call
type Kind string

const (
	KindValidation  Kind = "validation"
	KindRateLimited Kind = "rate_limited"
	KindDuplicate   Kind = "duplicate"
	KindServer      Kind = "server"
	KindNetwork     Kind = "network"
	KindTimedOut    Kind = "timed_out"
)

// Sentinels for errors.Is; every *APIError matches the one for its Kind.
var (
	ErrValidation  = errors.New("request rejected")
	ErrRateLimited = errors.New("rate limited")
	ErrDuplicate   = errors.New("already recorded")
	ErrServer      = errors.New("server error")
	ErrNetwork     = errors.New("network error")
	ErrTimedOut    = errors.New("request timed out")
)

var kindSentinels = map[Kind]error{
	KindValidation:  ErrValidation,
	KindRateLimited: ErrRateLimited,
	KindDuplicate:   ErrDuplicate,
	KindServer:      ErrServer,
	KindNetwork:     ErrNetwork,
	KindTimedOut:    ErrTimedOut,
}

// APIError is returned for every failed call. Message is the server's
// {"error"} text when there was one and is safe to show to a user.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Retryable reports whether repeating an idempotent call could help
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimedOut, KindServer:
		return true
	}
	return false
}

// kindForStatus maps a non-2xx status to a Kind
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusConflict:
		return KindDuplicate
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	}
	return KindServer
}

// UserMessage is the text to show for err
func UserMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "Something went wrong. Please try again."
	}
	switch apiErr.Kind {
	case KindTimedOut:
		return "The server took too long to respond. Please try again."
	case KindNetwork:
		return "Could not reach the server. Please check your connection."
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
