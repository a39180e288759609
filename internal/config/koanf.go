// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/basketlens/internal/segment"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"basketlens.yaml",
	"basketlens.yml",
	"config.yaml",
	"config.yml",
	"/etc/basketlens/config.yaml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPath is loaded into the process environment before the env layer
// when it exists. Variables already set are not overridden.
var DotEnvPath = ".env"

// defaultConfig returns the built-in defaults. They reproduce the reference
// analysis: four clusters seeded with 42, a 128/64 network trained for 10
// epochs in batches of 32, and three recommendations per customer.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			TransactionsPath: "transactions.csv",
			CatalogPath:      "",
			MaxIssues:        100,
		},
		Segment: SegmentConfig{
			Clusters:      4,
			MaxIterations: 100,
			Tolerance:     1e-6,
			Seed:          42,
			Workers:       4,
			LabelPolicy:   string(segment.LabelPositional),
			Labels:        append([]string(nil), segment.DefaultLabels...),
		},
		Recommend: RecommendConfig{
			Enabled:      true,
			HiddenLayers: []int{128, 64},
			Epochs:       10,
			BatchSize:    32,
			LearningRate: 0.001,
			Workers:      4,
			Seed:         42,
			Timeout:      10 * time.Minute,
			DefaultK:     3,
			MaxK:         100,
		},
		Tiers: segment.DefaultTierRules(),
		Analysis: AnalysisConfig{
			Interval:   0, // run once at startup
			RunTimeout: 15 * time.Minute,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,

			RecommendCacheSize: 1024,
			RecommendCacheTTL:  10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the built-in defaults without reading files or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from layered sources:
//  1. Defaults
//  2. YAML file: path if non-empty, else CONFIG_PATH, else the first of
//     DefaultConfigPaths that exists
//  3. Environment variables, after loading a .env file if present
//
// An explicit path that does not exist is an error; a missing default file
// is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	// SEGMENT_CLUSTERS -> segment.clusters, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"segment.labels",
	"recommend.hidden_layers",
	"api.cors_origins",
}

// processSliceFields converts comma-separated strings to slices. Values that
// came from YAML are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names to config paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Data
	"transactions_path": "data.transactions_path",
	"catalog_path":      "data.catalog_path",
	"max_issues":        "data.max_issues",

	// Segmentation
	"segment_clusters":       "segment.clusters",
	"segment_max_iterations": "segment.max_iterations",
	"segment_tolerance":      "segment.tolerance",
	"segment_seed":           "segment.seed",
	"segment_workers":        "segment.workers",
	"segment_label_policy":   "segment.label_policy",
	"segment_labels":         "segment.labels",

	// Recommendation model
	"recommend_enabled":       "recommend.enabled",
	"recommend_hidden_layers": "recommend.hidden_layers",
	"recommend_epochs":        "recommend.epochs",
	"recommend_batch_size":    "recommend.batch_size",
	"recommend_learning_rate": "recommend.learning_rate",
	"recommend_workers":       "recommend.workers",
	"recommend_seed":          "recommend.seed",
	"recommend_timeout":       "recommend.timeout",
	"recommend_default_k":     "recommend.default_k",
	"recommend_max_k":         "recommend.max_k",

	// Analysis schedule
	"analysis_interval":    "analysis.interval",
	"analysis_run_timeout": "analysis.run_timeout",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"cors_origins":          "api.cors_origins",
	"rate_limit_requests":   "api.rate_limit_reqs",
	"rate_limit_window":     "api.rate_limit_window",
	"disable_rate_limit":    "api.rate_limit_disabled",
	"recommend_cache_size":  "api.recommend_cache_size",
	"recommend_cache_ttl":   "api.recommend_cache_ttl",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path,
// or "" to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
