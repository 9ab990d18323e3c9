package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds every d9sync metric. A dedicated registry keeps pushes to the
// Pushgateway free of Go runtime collectors.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Registry write metrics
	registryWritesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "d9sync",
			Subsystem: "registry",
			Name:      "writes_total",
			Help:      "Total number of registry writes by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	registryWriteDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "d9sync",
			Subsystem: "registry",
			Name:      "write_duration_seconds",
			Help:      "Registry write latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// Snapshot metrics
	activeProjects = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "d9sync",
			Subsystem: "gcp",
			Name:      "active_projects",
			Help:      "Number of ACTIVE projects in the last snapshot",
		},
	)

	registeredAccounts = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "d9sync",
			Subsystem: "registry",
			Name:      "registered_accounts",
			Help:      "Number of registered Google Cloud accounts in the last snapshot",
		},
	)

	candidates = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "d9sync",
			Subsystem: "run",
			Name:      "candidates",
			Help:      "Number of projects selected for the last run",
		},
		[]string{"operation"},
	)

	// Run metrics
	runsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "d9sync",
			Subsystem: "run",
			Name:      "total",
			Help:      "Total number of runs by operation and status",
		},
		[]string{"operation", "status"},
	)

	runDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "d9sync",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of a run in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"operation"},
	)

	lastRunTimestamp = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "d9sync",
			Subsystem: "run",
			Name:      "last_completion_timestamp_seconds",
			Help:      "Unix time of the last finished run",
		},
		[]string{"operation"},
	)
)

// RecordRegistryWrite records one registry write and its classified outcome
func RecordRegistryWrite(operation, outcome string, duration time.Duration) {
	registryWritesTotal.WithLabelValues(operation, outcome).Inc()
	registryWriteDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetSnapshot sets the gauges describing both sides of the last snapshot
func SetSnapshot(projects, accounts int) {
	activeProjects.Set(float64(projects))
	registeredAccounts.Set(float64(accounts))
}

// SetCandidates sets the number of projects selected for an operation
func SetCandidates(operation string, count int) {
	candidates.WithLabelValues(operation).Set(float64(count))
}

// RecordRun records a finished run
func RecordRun(operation, status string, duration time.Duration) {
	runsTotal.WithLabelValues(operation, status).Inc()
	runDuration.WithLabelValues(operation).Observe(duration.Seconds())
	lastRunTimestamp.WithLabelValues(operation).SetToCurrentTime()
}

// Pusher sends the registry to a Prometheus Pushgateway
type Pusher struct {
	url string
	job string
}

// NewPusher creates a Pusher; an empty url disables pushing
func NewPusher(url, job string) *Pusher {
	return &Pusher{url: url, job: job}
}

// Push sends the current metric values. It is a no-op without a URL.
func (p *Pusher) Push(ctx context.Context) error {
	if p == nil || p.url == "" {
		return nil
	}
	return push.New(p.url, p.job).Gatherer(Registry).PushContext(ctx)
}
