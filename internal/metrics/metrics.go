// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run statuses used as label values.
const (
	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusFailed = "failed"
)

// Recommendation outcomes used as label values.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeOutOfRange = "out_of_range"
	OutcomeError      = "error"
)

var (
	// Analysis Metrics
	AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketlens_analysis_runs_total",
			Help: "Total number of analysis runs by final status",
		},
		[]string{"status"}, // "ok", "empty", "failed"
	)

	AnalysisRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basketlens_analysis_run_duration_seconds",
			Help:    "Duration of complete analysis runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	AnalysisLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basketlens_analysis_last_success_timestamp",
			Help: "Unix timestamp of the last successful analysis run",
		},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketlens_records_skipped_total",
			Help: "Total number of input records rejected, by pipeline stage",
		},
		[]string{"stage"}, // "ingest", "aggregate", "encode"
	)

	// Segmentation Metrics
	CustomersSegmented = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basketlens_customers_segmented",
			Help: "Number of customers in the latest segmentation",
		},
	)

	SegmentSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "basketlens_segment_size",
			Help: "Number of customers per segment in the latest run",
		},
		[]string{"segment"},
	)

	KMeansIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basketlens_kmeans_iterations",
			Help:    "Number of k-means iterations until convergence",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basketlens_training_duration_seconds",
			Help:    "Duration of recommendation model training in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
	)

	TrainingErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basketlens_training_errors_total",
			Help: "Total number of failed training runs",
		},
	)

	TrainingEpochs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basketlens_training_epochs_total",
			Help: "Total number of completed training epochs",
		},
	)

	TrainingLoss = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basketlens_training_loss",
			Help: "Mean cross-entropy of the most recent training epoch",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketlens_recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "out_of_range", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basketlens_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basketlens_recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAnalysisRun records a finished analysis run.
func RecordAnalysisRun(status string, duration time.Duration) {
	AnalysisRunsTotal.WithLabelValues(status).Inc()
	AnalysisRunDuration.Observe(duration.Seconds())
	if status != StatusFailed {
		AnalysisLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordSkipped adds n rejected records for a pipeline stage.
func RecordSkipped(stage string, n int) {
	if n > 0 {
		RecordsSkipped.WithLabelValues(stage).Add(float64(n))
	}
}

// RecordSegmentation replaces the segment size gauges with the latest run.
func RecordSegmentation(sizes map[string]int, iterations int) {
	SegmentSize.Reset()
	total := 0
	for segment, n := range sizes {
		SegmentSize.WithLabelValues(segment).Set(float64(n))
		total += n
	}
	CustomersSegmented.Set(float64(total))
	if iterations > 0 {
		KMeansIterations.Observe(float64(iterations))
	}
}

// RecordEpoch records one completed training epoch.
func RecordEpoch(loss float64) {
	TrainingEpochs.Inc()
	TrainingLoss.Set(loss)
}

// RecordTraining records a training run.
func RecordTraining(duration time.Duration, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingErrors.Inc()
	}
}

// RecordRecommendation records a recommendation request.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordRecommendationCache records a recommendation cache lookup.
func RecordRecommendationCache(hit bool) {
	if hit {
		RecommendationCache.WithLabelValues("hit").Inc()
		return
	}
	RecommendationCache.WithLabelValues("miss").Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
