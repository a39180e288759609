// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package config

import (
	"time"

	"github.com/tomtom215/basketlens/internal/logging"
	"github.com/tomtom215/basketlens/internal/recommend"
	"github.com/tomtom215/basketlens/internal/segment"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig         `koanf:"data"`
	Segment   SegmentConfig      `koanf:"segment"`
	Recommend RecommendConfig    `koanf:"recommend"`
	Tiers     []segment.TierRule `koanf:"tiers" validate:"min=1,dive"`
	Analysis  AnalysisConfig     `koanf:"analysis"`
	Server    ServerConfig       `koanf:"server"`
	API       APIConfig          `koanf:"api"`
	Logging   LoggingConfig      `koanf:"logging"`
}

// DataConfig locates the input files.
type DataConfig struct {
	// TransactionsPath is the transaction CSV analyzed by serve and analyze.
	TransactionsPath string `koanf:"transactions_path"`

	// CatalogPath is an optional product catalog CSV. When empty the catalog
	// is derived from the transactions.
	CatalogPath string `koanf:"catalog_path"`

	// MaxIssues caps the rejected-row details kept per load.
	MaxIssues int `koanf:"max_issues" validate:"gte=0"`
}

// SegmentConfig holds k-means segmentation settings.
type SegmentConfig struct {
	Clusters      int      `koanf:"clusters" validate:"gte=1"`
	MaxIterations int      `koanf:"max_iterations" validate:"gte=1"`
	Tolerance     float64  `koanf:"tolerance" validate:"gte=0"`
	Seed          int64    `koanf:"seed"`
	Workers       int      `koanf:"workers" validate:"gte=1"`
	LabelPolicy   string   `koanf:"label_policy" validate:"oneof=positional spend_rank"`
	Labels        []string `koanf:"labels"`
}

// RecommendConfig holds recommendation model settings.
type RecommendConfig struct {
	// Enabled trains the model during analysis runs.
	Enabled bool `koanf:"enabled"`

	HiddenLayers []int         `koanf:"hidden_layers" validate:"min=1,dive,gte=1"`
	Epochs       int           `koanf:"epochs" validate:"gte=1"`
	BatchSize    int           `koanf:"batch_size" validate:"gte=1"`
	LearningRate float64       `koanf:"learning_rate" validate:"gt=0"`
	Workers      int           `koanf:"workers" validate:"gte=1"`
	Seed         int64         `koanf:"seed"`
	Timeout      time.Duration `koanf:"timeout"`
	DefaultK     int           `koanf:"default_k" validate:"gte=1"`
	MaxK         int           `koanf:"max_k" validate:"gte=1"`
}

// AnalysisConfig controls when the server re-runs the analysis.
type AnalysisConfig struct {
	// Interval re-runs the analysis from scratch on a timer. Zero runs once
	// at startup.
	Interval time.Duration `koanf:"interval" validate:"gte=0"`

	// RunTimeout bounds a single run.
	RunTimeout time.Duration `koanf:"run_timeout" validate:"gt=0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size" validate:"gte=1"`
	MaxPageSize       int           `koanf:"max_page_size" validate:"gte=1"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// RecommendCacheSize caps cached recommendation responses; 0 disables
	// the cache.
	RecommendCacheSize int           `koanf:"recommend_cache_size" validate:"gte=0"`
	RecommendCacheTTL  time.Duration `koanf:"recommend_cache_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SegmentConfig converts the segment section for segment.NewSegmenter.
func (c *Config) SegmentConfig() *segment.Config {
	return &segment.Config{
		Clusters:      c.Segment.Clusters,
		MaxIterations: c.Segment.MaxIterations,
		Tolerance:     c.Segment.Tolerance,
		Seed:          c.Segment.Seed,
		Workers:       c.Segment.Workers,
		LabelPolicy:   segment.LabelPolicy(c.Segment.LabelPolicy),
		Labels:        append([]string(nil), c.Segment.Labels...),
	}
}

// RecommendConfig converts the recommend section for recommend.NewEngine.
// Optimizer moments keep their defaults.
func (c *Config) RecommendConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Network.HiddenLayers = append([]int(nil), c.Recommend.HiddenLayers...)
	rc.Training.Epochs = c.Recommend.Epochs
	rc.Training.BatchSize = c.Recommend.BatchSize
	rc.Training.LearningRate = c.Recommend.LearningRate
	rc.Training.Workers = c.Recommend.Workers
	rc.Training.Timeout = c.Recommend.Timeout
	rc.Limits.DefaultK = c.Recommend.DefaultK
	rc.Limits.MaxK = c.Recommend.MaxK
	rc.Seed = c.Recommend.Seed
	return rc
}

// TierRules returns a copy of the configured spend tiers.
func (c *Config) TierRules() []segment.TierRule {
	return append([]segment.TierRule(nil), c.Tiers...)
}

// LoggingConfig converts the logging section for logging.Init.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
