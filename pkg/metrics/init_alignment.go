package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAlignmentMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bipace_runs_total",
			Help: "Total number of alignment runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bipace_run_duration_seconds",
			Help:    "Alignment run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bipace_stage_duration_seconds",
			Help:    "Alignment stage duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"stage"},
	)

	r.PairUnitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bipace_pair_units_total",
			Help: "Total number of sample-pair similarity units executed",
		},
	)

	r.ScoresComputedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bipace_scores_computed_total",
			Help: "Total number of peak-pair similarity scores computed",
		},
	)

	r.BBHEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bipace_bbh_edges_total",
			Help: "Total number of bidirectional best hits processed by the merger",
		},
	)

	r.CliquesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bipace_cliques_total",
			Help: "Cliques by outcome (created, merged, retained, dropped)",
		},
		[]string{"outcome"},
	)

	r.PeaksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bipace_peaks_total",
			Help: "Peaks by final state (aligned, unassigned, incompatible, below_threshold)",
		},
		[]string{"state"},
	)

	r.IncompatibleRatio = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bipace_incompatible_peak_ratio",
			Help: "Fraction of peaks marked incompatible in the last run",
		},
	)

	r.LastRunSamples = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bipace_last_run_samples",
			Help: "Number of samples in the last run",
		},
	)

	r.LastRunPeaks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bipace_last_run_peaks",
			Help: "Number of peaks in the last run",
		},
	)
}
