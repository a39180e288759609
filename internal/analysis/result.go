// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package analysis

import (
	"context"
	"time"

	"github.com/tomtom215/basketlens/internal/metrics"
	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/recommend"
	"github.com/tomtom215/basketlens/internal/segment"
)

// Status is the outcome of an analysis run.
type Status string

const (
	// StatusOK means every stage completed.
	StatusOK Status = "ok"

	// StatusEmpty means the batch held no usable transactions. Outputs are
	// empty and recommendations return empty lists.
	StatusEmpty Status = "empty"

	// StatusFailed means a stage returned an error.
	StatusFailed Status = "failed"
)

// RunStats counts what a run consumed.
type RunStats struct {
	Transactions     int                   `json:"transactions"`
	Customers        int                   `json:"customers"`
	Skipped          int                   `json:"skipped"`
	Issues           []segment.RecordIssue `json:"issues,omitempty"`
	TrainingExamples int                   `json:"training_examples"`
	EncodeSkipped    int                   `json:"encode_skipped"`
	DurationMS       int64                 `json:"duration_ms"`

	// UniverseChanged is set when the batch describes a different
	// customer/product universe than the previous run's model.
	UniverseChanged bool `json:"universe_changed"`
}

// Result is the immutable output of one analysis run.
type Result struct {
	RunID       string           `json:"run_id"`
	Status      Status           `json:"status"`
	ErrorKind   models.ErrorKind `json:"error_kind,omitempty"`
	Error       string           `json:"error,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	Stats       RunStats         `json:"stats"`

	Segments *segment.Result  `json:"-"`
	Summary  *segment.Summary `json:"-"`

	// Engine serves recommendations for this run's universe. Nil when
	// training is disabled or the run failed.
	Engine *recommend.Engine `json:"-"`
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Recommend returns the top k products for a customer of this run. k follows
// the engine's rules: zero selects the configured default and a negative k
// yields an empty list.
func (r *Result) Recommend(ctx context.Context, customerID, k int) (*recommend.Response, error) {
	start := time.Now()
	if r.Engine == nil {
		metrics.RecordRecommendation(metrics.OutcomeError, time.Since(start))
		return nil, models.NewError(models.KindConfiguration, "analysis.Recommend",
			"run %s has no recommendation model", r.RunID)
	}

	resp, err := r.Engine.Recommend(ctx, recommend.Request{CustomerID: customerID, K: k})
	switch {
	case err != nil && models.KindOf(err) == models.KindOutOfRange:
		metrics.RecordRecommendation(metrics.OutcomeOutOfRange, time.Since(start))
	case err != nil:
		metrics.RecordRecommendation(metrics.OutcomeError, time.Since(start))
	case len(resp.Items) == 0:
		metrics.RecordRecommendation(metrics.OutcomeEmpty, time.Since(start))
	default:
		metrics.RecordRecommendation(metrics.OutcomeOK, time.Since(start))
	}
	return resp, err
}

// Assignments returns the segment assignments in customer first-seen order,
// or an empty slice.
func (r *Result) Assignments() []segment.Assignment {
	if r.Segments == nil || len(r.Segments.Assignments) == 0 {
		return []segment.Assignment{}
	}
	return r.Segments.Assignments
}
