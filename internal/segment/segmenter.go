// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Assignment is the per-customer segmentation output.
type Assignment struct {
	CustomerID       int     `json:"id"`
	Segment          string  `json:"segment"`
	MostUsedCategory string  `json:"most_used_category"`
	FavoriteProduct  string  `json:"favorite_product"`
	AvgSpent         float64 `json:"avg_spent"`
}

// ClusterInfo describes one cluster of a run.
type ClusterInfo struct {
	Index     int     `json:"index"`
	Label     string  `json:"label"`
	Size      int     `json:"size"`
	MeanSpend float64 `json:"mean_spend"`
}

// Labeling maps customers to segment labels for one clustering.
type Labeling struct {
	ByCustomer map[int]string
	Clustering *Clustering
	Clusters   []ClusterInfo
}

// Result is the outcome of segmenting one aggregation.
type Result struct {
	// Assignments are in customer first-seen order.
	Assignments []Assignment  `json:"assignments"`
	Clusters    []ClusterInfo `json:"clusters"`
	Iterations  int           `json:"iterations"`
	Converged   bool          `json:"converged"`
	Scaler      *Scaler       `json:"-"`

	index map[int]int
}

// Len returns the number of segmented customers.
func (r *Result) Len() int {
	return len(r.Assignments)
}

// Lookup returns the assignment of a customer.
func (r *Result) Lookup(customerID int) (Assignment, bool) {
	i, ok := r.index[customerID]
	if !ok {
		return Assignment{}, false
	}
	return r.Assignments[i], true
}

// Labels returns the customer to segment label mapping.
func (r *Result) Labels() map[int]string {
	out := make(map[int]string, len(r.Assignments))
	for _, a := range r.Assignments {
		out[a.CustomerID] = a.Segment
	}
	return out
}

// Segmenter runs feature building, normalization and clustering.
type Segmenter struct {
	config *Config
	logger zerolog.Logger
}

// NewSegmenter creates a segmenter. A nil config uses DefaultConfig.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSegmenter(cfg *Config, logger zerolog.Logger) (*Segmenter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid segment config: %w", err)
	}
	return &Segmenter{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "segment").Logger(),
	}, nil
}

// Segment assigns every customer of agg to a labeled segment.
// An empty aggregation yields an empty result.
func (s *Segmenter) Segment(ctx context.Context, agg *Aggregation) (*Result, error) {
	start := time.Now()
	result := &Result{index: make(map[int]int)}
	if agg == nil || agg.Len() == 0 {
		return result, nil
	}

	profiles := agg.Ordered()
	features, err := BuildFeatures(profiles, agg.Vocabulary)
	if err != nil {
		return nil, err
	}
	normalized, scaler, err := Normalize(features)
	if err != nil {
		return nil, err
	}

	labeling, err := s.Cluster(ctx, normalized, features)
	if err != nil {
		return nil, err
	}

	result.Assignments = make([]Assignment, 0, len(profiles))
	for i, p := range profiles {
		result.index[p.ID] = i
		result.Assignments = append(result.Assignments, Assignment{
			CustomerID:       p.ID,
			Segment:          labeling.ByCustomer[p.ID],
			MostUsedCategory: p.MostUsedCategory(),
			FavoriteProduct:  p.FavoriteProduct(),
			AvgSpent:         p.AvgSpent.InexactFloat64(),
		})
	}
	result.Clusters = labeling.Clusters
	result.Iterations = labeling.Clustering.Iterations
	result.Converged = labeling.Clustering.Converged
	result.Scaler = scaler

	s.logger.Info().
		Int("customers", len(profiles)).
		Int("dimensions", features.Width()).
		Int("clusters", labeling.Clustering.K).
		Int("iterations", labeling.Clustering.Iterations).
		Bool("converged", labeling.Clustering.Converged).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("segmentation complete")

	return result, nil
}

// Cluster runs k-means over normalized rows and labels each customer.
// raw supplies unscaled total spend for the spend-rank label policy and must
// be row-aligned with normalized.
func (s *Segmenter) Cluster(ctx context.Context, normalized, raw *FeatureMatrix) (*Labeling, error) {
	clustering, err := KMeans(ctx, normalized.Rows, KMeansConfig{
		K:             s.config.Clusters,
		MaxIterations: s.config.MaxIterations,
		Tolerance:     s.config.Tolerance,
		Seed:          s.config.Seed,
		Workers:       s.config.Workers,
	})
	if err != nil {
		return nil, err
	}
	if clustering.K < s.config.Clusters && normalized.Len() > 0 {
		s.logger.Warn().
			Int("requested", s.config.Clusters).
			Int("effective", clustering.K).
			Msg("cluster count capped to distinct customers")
	}

	meanSpend := make([]float64, clustering.K)
	for i, c := range clustering.Assignments {
		meanSpend[c] += raw.Rows[i][0]
	}
	for c := range meanSpend {
		if clustering.Sizes[c] > 0 {
			meanSpend[c] /= float64(clustering.Sizes[c])
		}
	}

	names, err := LabelClusters(s.config.LabelPolicy, s.config.Labels, meanSpend)
	if err != nil {
		return nil, err
	}

	labeling := &Labeling{
		ByCustomer: make(map[int]string, normalized.Len()),
		Clustering: clustering,
		Clusters:   make([]ClusterInfo, clustering.K),
	}
	for c := range labeling.Clusters {
		labeling.Clusters[c] = ClusterInfo{
			Index:     c,
			Label:     names[c],
			Size:      clustering.Sizes[c],
			MeanSpend: meanSpend[c],
		}
	}
	for i, id := range normalized.CustomerIDs {
		labeling.ByCustomer[id] = names[clustering.Assignments[i]]
	}
	return labeling, nil
}
