// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"time"
)

// Recommendation is one ranked product for a customer.
type Recommendation struct {
	// ProductID is the recommended product.
	ProductID int `json:"product_id"`

	// Score is the model's probability for the product.
	Score float64 `json:"score"`

	// Name and Category come from the catalog, or are placeholders for
	// products the catalog does not know.
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Request represents a recommendation request.
type Request struct {
	// CustomerID is the customer to recommend for.
	CustomerID int `json:"customer_id" validate:"gte=0"`

	// K is the number of recommendations. Zero means the configured default,
	// negative values yield an empty list.
	K int `json:"k"`

	// RequestID is for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response contains ranked recommendations and metadata.
type Response struct {
	Items    []Recommendation `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID    string    `json:"request_id"`
	CustomerID   int       `json:"customer_id"`
	K            int       `json:"k"`
	LatencyMS    int64     `json:"latency_ms"`
	ModelVersion int       `json:"model_version"`
	TrainedAt    time.Time `json:"trained_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// Progress is the training progress (0-100).
	Progress int `json:"progress"`

	// Epoch is the last completed epoch of the current or last run.
	Epoch int `json:"epoch"`

	// Loss is the mean cross-entropy of the last completed epoch.
	Loss float64 `json:"loss"`

	// LastTrainedAt is when training last completed.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// Examples is the number of encoded training examples.
	Examples int `json:"examples"`

	// Skipped is the number of purchase pairs dropped by the encoder.
	Skipped int `json:"skipped"`

	// Universe is the customer/product space of the trained model.
	Universe Universe `json:"universe"`

	// ModelVersion increments on each successful training.
	ModelVersion int `json:"model_version"`
}

// EpochStats is reported after every training epoch.
type EpochStats struct {
	Epoch  int     `json:"epoch"`
	Epochs int     `json:"epochs"`
	Loss   float64 `json:"loss"`

	// Accuracy is the share of examples whose label had the highest
	// probability during the epoch's forward passes.
	Accuracy float64 `json:"accuracy"`
}
