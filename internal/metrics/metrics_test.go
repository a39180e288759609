// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Collectors are global, so tests compare deltas instead of absolute values.

func TestRecordAnalysisRun(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"successful run", StatusOK},
		{"empty batch", StatusEmpty},
		{"failed run", StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(AnalysisRunsTotal.WithLabelValues(tt.status))
			RecordAnalysisRun(tt.status, 25*time.Millisecond)
			after := testutil.ToFloat64(AnalysisRunsTotal.WithLabelValues(tt.status))
			if after-before != 1 {
				t.Errorf("runs{status=%q} delta = %v, want 1", tt.status, after-before)
			}
		})
	}

	if testutil.ToFloat64(AnalysisLastSuccess) == 0 {
		t.Error("AnalysisLastSuccess not set after a successful run")
	}
}

func TestRecordSkipped(t *testing.T) {
	before := testutil.ToFloat64(RecordsSkipped.WithLabelValues("ingest"))
	RecordSkipped("ingest", 3)
	RecordSkipped("ingest", 0)
	after := testutil.ToFloat64(RecordsSkipped.WithLabelValues("ingest"))
	if after-before != 3 {
		t.Errorf("skipped delta = %v, want 3", after-before)
	}
}

func TestRecordSegmentation(t *testing.T) {
	RecordSegmentation(map[string]int{"Luxury Buyers": 2, "Frequent Buyers": 5}, 7)
	if got := testutil.ToFloat64(SegmentSize.WithLabelValues("Frequent Buyers")); got != 5 {
		t.Errorf("segment size = %v, want 5", got)
	}
	if got := testutil.ToFloat64(CustomersSegmented); got != 7 {
		t.Errorf("customers = %v, want 7", got)
	}

	// A later run replaces earlier segments.
	RecordSegmentation(map[string]int{"Discount Shoppers": 1}, 2)
	if got := testutil.CollectAndCount(SegmentSize); got != 1 {
		t.Errorf("segment series = %d, want 1", got)
	}
}

func TestRecordTraining(t *testing.T) {
	epochsBefore := testutil.ToFloat64(TrainingEpochs)
	errorsBefore := testutil.ToFloat64(TrainingErrors)

	RecordEpoch(1.25)
	RecordEpoch(0.75)
	RecordTraining(time.Second, nil)
	RecordTraining(time.Second, errors.New("canceled"))

	if got := testutil.ToFloat64(TrainingEpochs) - epochsBefore; got != 2 {
		t.Errorf("epochs delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(TrainingLoss); got != 0.75 {
		t.Errorf("loss = %v, want 0.75", got)
	}
	if got := testutil.ToFloat64(TrainingErrors) - errorsBefore; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	for _, outcome := range []string{OutcomeOK, OutcomeEmpty, OutcomeOutOfRange, OutcomeError} {
		before := testutil.ToFloat64(RecommendationRequests.WithLabelValues(outcome))
		RecordRecommendation(outcome, time.Millisecond)
		if got := testutil.ToFloat64(RecommendationRequests.WithLabelValues(outcome)) - before; got != 1 {
			t.Errorf("outcome %q delta = %v, want 1", outcome, got)
		}
	}
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
	}{
		{"segments page", "GET", "/api/v1/segments", "200"},
		{"unknown customer", "GET", "/api/v1/segments/{customerID}", "404"},
		{"bad k", "GET", "/api/v1/customers/{customerID}/recommendations", "400"},
		{"rate limited", "GET", "/api/v1/summary", "429"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode)
			before := testutil.ToFloat64(counter)
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, 5*time.Millisecond)
			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("requests delta = %v, want 1", got)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3")
	if got := testutil.CollectAndCount(AppInfo); got < 1 {
		t.Errorf("app_info series = %d, want >= 1", got)
	}
}

func TestRecordRecommendationCache(t *testing.T) {
	hits := testutil.ToFloat64(RecommendationCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(RecommendationCache.WithLabelValues("miss"))

	RecordRecommendationCache(true)
	RecordRecommendationCache(false)
	RecordRecommendationCache(false)

	if d := testutil.ToFloat64(RecommendationCache.WithLabelValues("hit")) - hits; d != 1 {
		t.Errorf("hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(RecommendationCache.WithLabelValues("miss")) - misses; d != 2 {
		t.Errorf("miss delta = %v, want 2", d)
	}
}
