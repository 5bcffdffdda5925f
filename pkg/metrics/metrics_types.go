package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Alignment Metrics
	RunsTotal           *prometheus.CounterVec
	RunDuration         prometheus.Histogram
	StageDuration       *prometheus.HistogramVec
	PairUnitsTotal      prometheus.Counter
	ScoresComputedTotal prometheus.Counter
	BBHEdgesTotal       prometheus.Counter
	CliquesTotal        *prometheus.CounterVec
	PeaksTotal          *prometheus.CounterVec
	IncompatibleRatio   prometheus.Gauge
	LastRunSamples      prometheus.Gauge
	LastRunPeaks        prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
}

// RunSummary carries the counters of one finished alignment run
type RunSummary struct {
	Samples         int
	Peaks           int
	PairUnits       int
	ScoresComputed  int64
	BBHEdges        int
	CliquesCreated  int
	CliquesMerged   int
	CliquesRetained int
	CliquesDropped  int
	Aligned         int
	Unassigned      int
	Incompatible    int
	BelowThreshold  int
	Duration        time.Duration
}

// Run status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}

	r.initAlignmentMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
