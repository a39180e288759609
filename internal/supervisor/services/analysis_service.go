// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/recommend"
)

// BatchSource loads the batch for one analysis run.
type BatchSource interface {
	Load(ctx context.Context) (*models.Batch, error)
}

// Analyzer runs one analysis over a batch. *analysis.Analyzer satisfies it.
type Analyzer interface {
	Run(ctx context.Context, batch *models.Batch, opts ...recommend.TrainOption) (*analysis.Result, error)
}

// ResultPublisher receives every finished run, failed runs included.
type ResultPublisher interface {
	Publish(result *analysis.Result)
}

// AnalysisServiceConfig holds configuration for the analysis service.
type AnalysisServiceConfig struct {
	// Interval between re-runs. Zero runs once at startup.
	Interval time.Duration

	// RunTimeout bounds a single load plus analysis.
	RunTimeout time.Duration
}

// AnalysisService loads the batch and analyzes it on startup, then again
// every Interval, each time from scratch. Results are published whether the
// run succeeds or fails, so the API can report failures by kind.
//
// A load error (missing or unreadable file) is returned to the supervisor,
// which restarts the service with backoff. An analysis error is published
// as a failed result instead, because rerunning the same batch cannot fix
// it.
type AnalysisService struct {
	source    BatchSource
	analyzer  Analyzer
	publisher ResultPublisher
	config    AnalysisServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewAnalysisService creates an analysis service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalysisService(source BatchSource, analyzer Analyzer, publisher ResultPublisher, cfg AnalysisServiceConfig, logger zerolog.Logger) *AnalysisService {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 15 * time.Minute
	}
	return &AnalysisService{
		source:    source,
		analyzer:  analyzer,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With().Str("service", "analysis").Logger(),
		name:      "analysis-service",
	}
}

// Serve implements suture.Service. With no interval the service finishes
// after the first successful load and tells suture not to restart it.
func (s *AnalysisService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("run_timeout", s.config.RunTimeout).
		Msg("analysis service starting")

	if err := s.RunOnce(ctx); err != nil {
		return err
	}

	if s.config.Interval <= 0 {
		s.logger.Info().Msg("periodic analysis disabled, service done")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("analysis service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled analysis triggered")
			if err := s.RunOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// RunOnce loads the batch, analyzes it and publishes the result. Only load
// failures and cancellation are returned.
func (s *AnalysisService) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	batch, err := s.source.Load(runCtx)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}

	result, err := s.analyzer.Run(runCtx, batch)
	if ctx.Err() != nil {
		// Shutdown, not a failed run; keep the previous result.
		return ctx.Err()
	}
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("error_kind", string(models.KindOf(err))).
			Msg("analysis run failed, publishing failure")
	}
	if result != nil {
		s.publisher.Publish(result)
	}
	return nil
}

// String identifies the service in supervisor events.
func (s *AnalysisService) String() string {
	return s.name
}
