package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_runs_total",
		Help: "Total number of detection runs, by outcome",
	}, []string{"outcome"})

	RunStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentinel_run_stage_duration_seconds",
		Help:    "Duration of detection pipeline stages",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_frames_scanned_total",
		Help: "Total number of frames read across all detection runs",
	})

	AnomaliesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_anomalies_detected_total",
		Help: "Total number of anomalies detected",
	})

	DispatchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_dispatch_failures_total",
		Help: "Total number of failed clip deliveries to the narration service",
	})

	ActiveRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sentinel_active_runs",
		Help: "Number of detection runs currently in flight",
	})

	NarrationsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_narrations_generated_total",
		Help: "Total number of narration generation attempts, by result",
	}, []string{"result"})
)
