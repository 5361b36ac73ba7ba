// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeFailed      = "failed"
)

// Collector holds all Prometheus metrics for the gallery API. Each collector
// owns its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Submissions      *prometheus.CounterVec
	Votes            *prometheus.CounterVec
	Upvotes          *prometheus.CounterVec
	NotifierFailures *prometheus.CounterVec
	DataDeletions    prometheus.Counter
	RealtimeClients  prometheus.Gauge
}

// NewCollector creates a collector with every metric registered under namespace
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Moderated submissions by kind and outcome",
		}, []string{"kind", "outcome"}),
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Vote inserts by category and result",
		}, []string{"category", "result"}),
		Upvotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upvotes_total",
			Help:      "Feedback and remix upvotes by target and result",
		}, []string{"target", "result"}),
		NotifierFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_notifier_failures_total",
			Help:      "Moderation tickets that could not be opened",
		}, []string{"kind"}),
		DataDeletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_data_deletions_total",
			Help:      "Completed delete-my-data requests",
		}),
		RealtimeClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_clients",
			Help:      "Connected realtime vote subscribers",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Submissions,
		c.Votes,
		c.Upvotes,
		c.NotifierFailures,
		c.DataDeletions,
		c.RealtimeClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveRequest records one finished HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) Submission(kind, outcome string) {
	c.Submissions.WithLabelValues(kind, outcome).Inc()
}

// Vote records an insert attempt; duplicate is true for unique violations
func (c *Collector) Vote(category string, duplicate bool) {
	c.Votes.WithLabelValues(category, result(duplicate)).Inc()
}

func (c *Collector) Upvote(target string, duplicate bool) {
	c.Upvotes.WithLabelValues(target, result(duplicate)).Inc()
}

func (c *Collector) NotifierFailed(kind string) {
	c.NotifierFailures.WithLabelValues(kind).Inc()
}

func (c *Collector) DataDeleted() {
	c.DataDeletions.Inc()
}

// ClientConnected and ClientDisconnected track realtime subscribers
func (c *Collector) ClientConnected()    { c.RealtimeClients.Inc() }
func (c *Collector) ClientDisconnected() { c.RealtimeClients.Dec() }

// Registry exposes the underlying registry for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func result(duplicate bool) string {
	if duplicate {
		return "duplicate"
	}
	return "inserted"
}
