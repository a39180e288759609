// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketlens/internal/models"
)

// ErrStaleModel is returned by CheckUniverse when a batch describes a
// different customer/product universe than the one the model was trained on.
var ErrStaleModel = errors.New("model trained on a different universe")

// Engine is a caller-owned recommendation session. It carries the trained
// model together with its universe and the catalog used for ranking, so
// nothing is shared between engines.
//
// Predictions take a shared lock; a retrain builds the new model outside the
// lock and swaps it in atomically, so in-flight predictions always see one
// complete model.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Model state
	modelMu sync.RWMutex
	model   *Model
	catalog models.Catalog

	// Training state
	training     atomic.Bool
	statusMu     sync.RWMutex
	status       TrainingStatus
	modelVersion atomic.Int32

	// Counters
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Train encodes pairs and trains a fresh model, replacing any previous one.
//
// A batch that encodes to no examples clears the model: later requests
// return empty recommendations rather than errors. Only one training may
// run at a time.
func (e *Engine) Train(ctx context.Context, pairs []models.Purchase, catalog models.Catalog, opts ...TrainOption) error {
	if !e.training.CompareAndSwap(false, true) {
		return fmt.Errorf("training already in progress")
	}
	defer e.training.Store(false)

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	ds := Encode(pairs)
	e.updateStatus(func(s *TrainingStatus) {
		s.IsTraining = true
		s.Progress = 0
		s.Epoch = 0
		s.Loss = 0
		s.LastError = ""
		s.Examples = ds.Len()
		s.Skipped = ds.Skipped
	})

	if ds.Skipped > 0 {
		e.logger.Warn().
			Int("skipped", ds.Skipped).
			Int("num_customers", ds.Universe.NumCustomers).
			Int("num_products", ds.Universe.NumProducts).
			Msg("purchase pairs outside the training universe were dropped")
	}

	if ds.Len() == 0 {
		e.swapModel(nil, catalog)
		e.updateStatus(func(s *TrainingStatus) {
			s.IsTraining = false
			s.Universe = ds.Universe
		})
		e.logger.Info().Int("pairs", len(pairs)).Msg("no training examples, model cleared")
		return nil
	}

	progress := WithEpochCallback(func(stats EpochStats) {
		e.updateStatus(func(s *TrainingStatus) {
			s.Epoch = stats.Epoch
			s.Loss = stats.Loss
			s.Progress = stats.Epoch * 100 / stats.Epochs
		})
		e.logger.Debug().
			Int("epoch", stats.Epoch).
			Float64("loss", stats.Loss).
			Float64("accuracy", stats.Accuracy).
			Msg("epoch complete")
	})

	model, err := Train(ctx, ds, e.config, append([]TrainOption{progress}, opts...)...)
	if err != nil {
		e.errorCount.Add(1)
		e.updateStatus(func(s *TrainingStatus) {
			s.IsTraining = false
			s.LastError = err.Error()
		})
		return fmt.Errorf("train model: %w", err)
	}

	e.swapModel(model, catalog)
	version := e.modelVersion.Add(1)
	duration := time.Since(start)

	e.updateStatus(func(s *TrainingStatus) {
		s.IsTraining = false
		s.Progress = 100
		s.LastTrainedAt = model.TrainedAt()
		s.LastTrainingDurationMS = duration.Milliseconds()
		s.Universe = model.Universe()
		s.ModelVersion = int(version)
	})

	e.logger.Info().
		Int("version", int(version)).
		Int("examples", ds.Len()).
		Int("num_customers", ds.Universe.NumCustomers).
		Int("num_products", ds.Universe.NumProducts).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("model training complete")

	return nil
}

// Recommend returns the top products for a customer.
//
// An engine without a model (never trained, or trained on an empty batch)
// returns an empty list. A customer outside the trained universe is an
// out-of-range error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, catalog := e.current()
	resp := &Response{
		Items:    []Recommendation{},
		Metadata: e.buildResponseMetadata(req, model, start),
	}
	if model == nil || req.K < 0 {
		return resp, nil
	}

	dist, err := model.Predict(req.CustomerID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	resp.Items = TopK(dist, req.K, catalog)
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()

	e.logger.Debug().
		Str("request_id", req.RequestID).
		Int("customer_id", req.CustomerID).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// Predict returns the raw output distribution for a customer.
func (e *Engine) Predict(customerID int) ([]float64, error) {
	model, _ := e.current()
	if model == nil {
		return nil, models.NewError(models.KindOutOfRange, "recommend.Predict",
			"no trained model for customer %d", customerID)
	}
	return model.Predict(customerID)
}

// CheckUniverse reports ErrStaleModel when pairs describe a different
// universe than the trained model. An untrained engine accepts any batch.
func (e *Engine) CheckUniverse(pairs []models.Purchase) error {
	model, _ := e.current()
	if model == nil {
		return nil
	}
	want := UniverseOf(pairs)
	if got := model.Universe(); got.Fingerprint != want.Fingerprint {
		return models.WrapError(models.KindConfiguration, "recommend.CheckUniverse", ErrStaleModel,
			fmt.Sprintf("trained on %d customers / %d products, batch has %d / %d",
				got.NumCustomers, got.NumProducts, want.NumCustomers, want.NumProducts))
	}
	return nil
}

// Model returns the current model, or nil.
func (e *Engine) Model() *Model {
	model, _ := e.current()
	return model
}

// Trained reports whether a model is available.
func (e *Engine) Trained() bool {
	return e.Model() != nil
}

// Status returns a snapshot of the training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// RequestCount returns the number of Recommend calls.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// ErrorCount returns the number of failed trainings and predictions.
func (e *Engine) ErrorCount() int64 {
	return e.errorCount.Load()
}

func (e *Engine) current() (*Model, models.Catalog) {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.model, e.catalog
}

func (e *Engine) swapModel(model *Model, catalog models.Catalog) {
	e.modelMu.Lock()
	defer e.modelMu.Unlock()
	e.model = model
	e.catalog = catalog
}

func (e *Engine) updateStatus(fn func(*TrainingStatus)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	fn(&e.status)
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.K == 0 {
		req.K = e.config.Limits.DefaultK
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}
	return req
}

// buildResponseMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponseMetadata(req Request, model *Model, start time.Time) ResponseMetadata {
	meta := ResponseMetadata{
		RequestID:    req.RequestID,
		CustomerID:   req.CustomerID,
		K:            req.K,
		LatencyMS:    time.Since(start).Milliseconds(),
		ModelVersion: int(e.modelVersion.Load()),
		Timestamp:    time.Now(),
	}
	if model != nil {
		meta.TrainedAt = model.TrainedAt()
	}
	return meta
}
