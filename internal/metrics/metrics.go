// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package metrics provides Prometheus instrumentation for the trust
// engine: assessment throughput and outcomes, per-detector latency and
// error rates, baseline training activity, and geometry cache efficiency.
// The host process is expected to expose the default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Assessment metrics
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustengine_assessments_total",
			Help: "Total number of fraud assessments by resulting risk level",
		},
		[]string{"risk_level"},
	)

	AssessmentsBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trustengine_assessments_blocked_total",
			Help: "Total number of assessments that recommended blocking the event",
		},
	)

	AssessmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trustengine_assessment_duration_seconds",
			Help:    "Duration of a full fraud assessment in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}, // Engine work is sub-millisecond to low tens of ms
		},
	)

	// Detector metrics
	DetectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustengine_detector_duration_seconds",
			Help:    "Duration of a single detector run in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
		[]string{"detector"},
	)

	DetectorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustengine_detector_errors_total",
			Help: "Total number of detector failures isolated by the orchestrator",
		},
		[]string{"detector", "error_type"}, // error_type: "error", "panic", "breaker_open"
	)

	DetectorFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustengine_detector_findings_total",
			Help: "Total number of anomaly findings by detector and severity",
		},
		[]string{"detector", "severity"},
	)

	// Baseline metrics
	BaselineTrainings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustengine_baseline_trainings_total",
			Help: "Total number of baseline training runs by outcome",
		},
		[]string{"outcome"}, // "trained", "insufficient_data"
	)

	BaselineTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trustengine_baseline_training_duration_seconds",
			Help:    "Duration of a full baseline training run in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Geometry cache metrics
	GeometryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trustengine_geometry_cache_hits_total",
			Help: "Total number of prepared-geometry cache hits",
		},
	)

	GeometryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trustengine_geometry_cache_misses_total",
			Help: "Total number of prepared-geometry cache misses",
		},
	)
)

// RecordAssessment records one completed assessment.
func RecordAssessment(riskLevel string, blocked bool, duration time.Duration) {
	AssessmentsTotal.WithLabelValues(riskLevel).Inc()
	AssessmentDuration.Observe(duration.Seconds())
	if blocked {
		AssessmentsBlocked.Inc()
	}
}

// RecordDetectorRun records a single detector execution.
func RecordDetectorRun(detector string, duration time.Duration) {
	DetectorDuration.WithLabelValues(detector).Observe(duration.Seconds())
}

// RecordDetectorError records a detector failure isolated by the
// orchestrator.
func RecordDetectorError(detector, errorType string) {
	DetectorErrors.WithLabelValues(detector, errorType).Inc()
}

// RecordFinding records an anomaly finding.
func RecordFinding(detector, severity string) {
	DetectorFindings.WithLabelValues(detector, severity).Inc()
}

// RecordTraining records a baseline training run.
func RecordTraining(outcome string, duration time.Duration) {
	BaselineTrainings.WithLabelValues(outcome).Inc()
	BaselineTrainingDuration.Observe(duration.Seconds())
}
