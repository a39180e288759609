// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"time"

	"github.com/tomtom215/basketlens/internal/models"
)

// Model is a trained network bound to the universe it was trained on.
// A Model is read-only after Train returns and safe for concurrent Predict
// calls.
type Model struct {
	net       *Network
	universe  Universe
	trainedAt time.Time
	history   []EpochStats
	examples  int
}

// Universe returns the customer/product space of the model.
func (m *Model) Universe() Universe {
	return m.universe
}

// TrainedAt returns when training finished.
func (m *Model) TrainedAt() time.Time {
	return m.trainedAt
}

// History returns per-epoch training statistics.
func (m *Model) History() []EpochStats {
	out := make([]EpochStats, len(m.history))
	copy(out, m.history)
	return out
}

// Examples returns the number of training examples.
func (m *Model) Examples() int {
	return m.examples
}

// Predict returns the distribution over NumProducts outputs for a customer.
// Output index i corresponds to product ID i+1. A customer outside
// [0, NumCustomers) is an out-of-range error.
func (m *Model) Predict(customerID int) ([]float64, error) {
	if !m.universe.Contains(customerID) {
		return nil, models.NewError(models.KindOutOfRange, "recommend.Predict",
			"customer %d not in trained range [0, %d)", customerID, m.universe.NumCustomers)
	}
	x := make([]float64, m.universe.NumCustomers)
	x[customerID] = 1
	return m.net.Forward(x), nil
}
