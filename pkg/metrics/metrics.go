package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordStage records the duration of one alignment stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRunFailure records an aborted alignment run
func (r *Registry) RecordRunFailure(duration time.Duration) {
	r.RunsTotal.WithLabelValues(StatusError).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordRun records a completed alignment run
func (r *Registry) RecordRun(s RunSummary) {
	r.RunsTotal.WithLabelValues(StatusSuccess).Inc()
	r.RunDuration.Observe(s.Duration.Seconds())

	r.PairUnitsTotal.Add(float64(s.PairUnits))
	r.ScoresComputedTotal.Add(float64(s.ScoresComputed))
	r.BBHEdgesTotal.Add(float64(s.BBHEdges))

	r.CliquesTotal.WithLabelValues("created").Add(float64(s.CliquesCreated))
	r.CliquesTotal.WithLabelValues("merged").Add(float64(s.CliquesMerged))
	r.CliquesTotal.WithLabelValues("retained").Add(float64(s.CliquesRetained))
	r.CliquesTotal.WithLabelValues("dropped").Add(float64(s.CliquesDropped))

	r.PeaksTotal.WithLabelValues("aligned").Add(float64(s.Aligned))
	r.PeaksTotal.WithLabelValues("unassigned").Add(float64(s.Unassigned))
	r.PeaksTotal.WithLabelValues("incompatible").Add(float64(s.Incompatible))
	r.PeaksTotal.WithLabelValues("below_threshold").Add(float64(s.BelowThreshold))

	if s.Peaks > 0 {
		r.IncompatibleRatio.Set(float64(s.Incompatible) / float64(s.Peaks))
	} else {
		r.IncompatibleRatio.Set(0)
	}
	r.LastRunSamples.Set(float64(s.Samples))
	r.LastRunPeaks.Set(float64(s.Peaks))
}

// UpdateSystemMetrics samples uptime and Go runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler returns an HTTP handler exposing the registry
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
