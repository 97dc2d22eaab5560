// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for sweep runs.
// It decorates a progress.Reporter so that command lifecycle events are
// counted without the runbatch package knowing about Prometheus.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/sweep/internal/progress"
	"github.com/prometheus/client_golang/prometheus"
)

var _ progress.Reporter = (*Reporter)(nil)

// Reporter records Prometheus metrics for every lifecycle event it sees,
// then forwards the event to the wrapped reporter.
type Reporter struct {
	next      progress.Reporter
	registry  *prometheus.Registry
	started   prometheus.Counter
	completed *prometheus.CounterVec
	inFlight  prometheus.Gauge
	duration  prometheus.Histogram

	mu         sync.Mutex
	startTimes map[string]time.Time
}

// NewReporter wraps next with Prometheus instrumentation. Each Reporter
// owns its own registry so repeated runs never collide on registration.
func NewReporter(next progress.Reporter) *Reporter {
	if next == nil {
		next = progress.NewNullReporter()
	}

	r := &Reporter{
		next:     next,
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_commands_started_total",
			Help: "Total number of commands started.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweep_commands_completed_total",
			Help: "Total number of commands finished, by final status.",
		}, []string{"status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sweep_commands_in_flight",
			Help: "Number of commands currently executing.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sweep_command_duration_seconds",
			Help:    "Wall-clock duration of completed commands.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 16),
		}),
		startTimes: make(map[string]time.Time),
	}

	r.registry.MustRegister(r.started, r.completed, r.inFlight, r.duration)

	return r
}

// Registry returns the registry holding this reporter's collectors,
// suitable for serving via promhttp.
func (r *Reporter) Registry() *prometheus.Registry {
	return r.registry
}

// Report implements progress.Reporter.
func (r *Reporter) Report(event progress.Event) {
	r.observe(event)
	r.next.Report(event)
}

// Close implements progress.Reporter.
func (r *Reporter) Close() {
	r.next.Close()
}

func (r *Reporter) observe(event progress.Event) {
	key := strings.Join(event.CommandPath, "/")

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	switch event.Type {
	case progress.EventStarted:
		r.started.Inc()
		r.inFlight.Inc()

		r.mu.Lock()
		r.startTimes[key] = ts
		r.mu.Unlock()
	case progress.EventCompleted, progress.EventFailed, progress.EventSkipped:
		r.completed.WithLabelValues(event.Type.String()).Inc()

		r.mu.Lock()
		start, ok := r.startTimes[key]
		if ok {
			delete(r.startTimes, key)
		}
		r.mu.Unlock()

		// Skipped commands never started, so there is nothing to time.
		if ok {
			r.inFlight.Dec()
			r.duration.Observe(ts.Sub(start).Seconds())
		}
	case progress.EventProgress, progress.EventOutput:
	}
}
