// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Network describes the model architecture.
	Network NetworkConfig `json:"network"`

	// Training contains optimizer and schedule parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Seed is the random seed for weight initialization and shuffling.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// NetworkConfig describes the feed-forward network.
type NetworkConfig struct {
	// HiddenLayers lists hidden layer widths. All hidden layers use ReLU.
	// Default: [128, 64].
	HiddenLayers []int `json:"hidden_layers"`
}

// TrainingConfig contains training parameters.
type TrainingConfig struct {
	// Epochs is the number of passes over the training set.
	// Default: 10.
	Epochs int `json:"epochs"`

	// BatchSize is the mini-batch size.
	// Default: 32.
	BatchSize int `json:"batch_size"`

	// LearningRate is the Adam step size.
	// Default: 0.001.
	LearningRate float64 `json:"learning_rate"`

	// Beta1 and Beta2 are the Adam moment decay rates.
	// Default: 0.9 and 0.999.
	Beta1 float64 `json:"beta1"`
	Beta2 float64 `json:"beta2"`

	// Epsilon guards the Adam denominator.
	// Default: 1e-7.
	Epsilon float64 `json:"epsilon"`

	// Workers caps how many gradient shards of a mini-batch run at once.
	// The shard layout is fixed, so trained weights do not depend on it.
	// Default: 4.
	Workers int `json:"workers"`

	// Timeout bounds a single training call.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations when K is not given.
	// Default: 3.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed K value.
	// Default: 100.
	MaxK int `json:"max_k"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			HiddenLayers: []int{128, 64},
		},
		Training: TrainingConfig{
			Epochs:       10,
			BatchSize:    32,
			LearningRate: 0.001,
			Beta1:        0.9,
			Beta2:        0.999,
			Epsilon:      1e-7,
			Workers:      4,
			Timeout:      10 * time.Minute,
		},
		Limits: LimitsConfig{
			DefaultK: 3,
			MaxK:     100,
		},
		Seed: 42, // Default seed for determinism
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if len(c.Network.HiddenLayers) == 0 {
		return fmt.Errorf("network.hidden_layers must not be empty")
	}
	for i, width := range c.Network.HiddenLayers {
		if width < 1 {
			return fmt.Errorf("network.hidden_layers[%d] must be positive, got %d", i, width)
		}
	}

	if c.Training.Epochs < 1 {
		return fmt.Errorf("training.epochs must be positive, got %d", c.Training.Epochs)
	}
	if c.Training.BatchSize < 1 {
		return fmt.Errorf("training.batch_size must be positive, got %d", c.Training.BatchSize)
	}
	if c.Training.LearningRate <= 0 {
		return fmt.Errorf("training.learning_rate must be positive, got %f", c.Training.LearningRate)
	}
	if c.Training.Beta1 < 0 || c.Training.Beta1 >= 1 {
		return fmt.Errorf("training.beta1 must be in [0, 1), got %f", c.Training.Beta1)
	}
	if c.Training.Beta2 < 0 || c.Training.Beta2 >= 1 {
		return fmt.Errorf("training.beta2 must be in [0, 1), got %f", c.Training.Beta2)
	}
	if c.Training.Epsilon <= 0 {
		return fmt.Errorf("training.epsilon must be positive, got %g", c.Training.Epsilon)
	}
	if c.Training.Workers < 1 {
		return fmt.Errorf("training.workers must be positive, got %d", c.Training.Workers)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Network.HiddenLayers = append([]int(nil), c.Network.HiddenLayers...)
	return &clone
}
