// Package metrics records sync run metrics in a private Prometheus registry
// and pushes them to a Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Outcome label values.
const (
	WorkspaceProcessed = "processed"
	WorkspaceSkipped   = "skipped"
	WorkspaceFailed    = "failed"

	ResourceDelivered = "delivered"
	ResourceFailed    = "failed"
	ResourceDryRun    = "dry_run"
)

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "tfcsync"

// Recorder owns the run metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	workspaces     *prometheus.CounterVec
	resources      *prometheus.CounterVec
	decodeFailures prometheus.Counter
	runDuration    prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

// NewRecorder builds a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		workspaces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tfcsync",
			Name:      "workspaces_total",
			Help:      "Workspaces handled by the sync, by outcome.",
		}, []string{"outcome"}),
		resources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tfcsync",
			Name:      "resources_total",
			Help:      "Resources handled by the sync, by outcome.",
		}, []string{"outcome"}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tfcsync",
			Name:      "state_decode_failures_total",
			Help:      "State documents that could not be decoded.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tfcsync",
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last sync run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tfcsync",
			Name:      "last_run_success_timestamp_seconds",
			Help:      "Unix time of the last sync run that completed without a fatal error.",
		}),
	}
	r.registry.MustRegister(r.workspaces, r.resources, r.decodeFailures, r.runDuration, r.lastSuccess)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Workspace(outcome string) {
	if r == nil {
		return
	}
	r.workspaces.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Resource(outcome string) {
	if r == nil {
		return
	}
	r.resources.WithLabelValues(outcome).Inc()
}

func (r *Recorder) DecodeFailure() {
	if r == nil {
		return
	}
	r.decodeFailures.Inc()
}

// RunFinished records the run duration, and the completion time when ok.
func (r *Recorder) RunFinished(elapsed time.Duration, ok bool, at time.Time) {
	if r == nil {
		return
	}
	r.runDuration.Set(elapsed.Seconds())
	if ok {
		r.lastSuccess.Set(float64(at.Unix()))
	}
}

// Push replaces the job's metric group on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil {
		return nil
	}
	if job == "" {
		job = DefaultJob
	}
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
