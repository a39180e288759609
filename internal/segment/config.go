// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"fmt"
)

// Config holds segmentation settings.
type Config struct {
	// Clusters is the requested number of segments.
	// Default: 4.
	Clusters int `json:"clusters"`

	// MaxIterations bounds k-means.
	// Default: 100.
	MaxIterations int `json:"max_iterations"`

	// Tolerance is the centroid movement below which k-means stops.
	// Default: 1e-6.
	Tolerance float64 `json:"tolerance"`

	// Seed drives centroid initialization.
	// Default: 42.
	Seed int64 `json:"seed"`

	// Workers is the shard count of the assignment step.
	// Default: 4.
	Workers int `json:"workers"`

	// LabelPolicy selects how clusters are named.
	// Default: positional.
	LabelPolicy LabelPolicy `json:"label_policy"`

	// Labels is the ordered label set. Must have at least Clusters entries.
	Labels []string `json:"labels"`
}

// DefaultConfig returns the default segmentation configuration.
func DefaultConfig() *Config {
	return &Config{
		Clusters:      4,
		MaxIterations: 100,
		Tolerance:     1e-6,
		Seed:          42,
		Workers:       4,
		LabelPolicy:   LabelPositional,
		Labels:        append([]string(nil), DefaultLabels...),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Clusters <= 0 {
		return fmt.Errorf("segment.clusters must be positive, got %d", c.Clusters)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("segment.max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("segment.tolerance must be non-negative, got %f", c.Tolerance)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("segment.workers must be positive, got %d", c.Workers)
	}
	if !c.LabelPolicy.Valid() {
		return fmt.Errorf("segment.label_policy must be %q or %q, got %q",
			LabelPositional, LabelSpendRank, c.LabelPolicy)
	}
	if len(c.Labels) < c.Clusters {
		return fmt.Errorf("segment.labels has %d entries, need at least %d", len(c.Labels), c.Clusters)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Labels = append([]string(nil), c.Labels...)
	return &clone
}
