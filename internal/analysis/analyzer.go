// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/basketlens/internal/config"
	"github.com/tomtom215/basketlens/internal/logging"
	"github.com/tomtom215/basketlens/internal/metrics"
	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/recommend"
	"github.com/tomtom215/basketlens/internal/segment"
)

// Options configures an Analyzer. Nil component configs use their defaults.
type Options struct {
	Segment   *segment.Config
	Recommend *recommend.Config
	Tiers     []segment.TierRule

	// DisableRecommend skips model training. Results then carry no engine.
	DisableRecommend bool
}

// OptionsFromConfig builds Analyzer options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Segment:          cfg.SegmentConfig(),
		Recommend:        cfg.RecommendConfig(),
		Tiers:            cfg.TierRules(),
		DisableRecommend: !cfg.Recommend.Enabled,
	}
}

// Analyzer runs the full pipeline over one batch: aggregation, segmentation,
// summary statistics and recommendation training. Each Run trains from
// scratch. The analyzer keeps only the last trained engine, to report when
// a new batch describes a different customer/product universe.
type Analyzer struct {
	segmenter        *segment.Segmenter
	tiers            *segment.TierClassifier
	recommendConfig  *recommend.Config
	disableRecommend bool
	logger           zerolog.Logger

	previous atomic.Pointer[recommend.Engine]
}

// NewAnalyzer validates opts and compiles the tier rules.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAnalyzer(opts Options, logger zerolog.Logger) (*Analyzer, error) {
	logger = logger.With().Str("component", "analysis").Logger()

	segmenter, err := segment.NewSegmenter(opts.Segment, logger)
	if err != nil {
		return nil, models.WrapError(models.KindConfiguration, "analysis.NewAnalyzer", err, "segmenter")
	}

	rules := opts.Tiers
	if len(rules) == 0 {
		rules = segment.DefaultTierRules()
	}
	tiers, err := segment.NewTierClassifier(rules)
	if err != nil {
		return nil, err
	}

	rc := opts.Recommend
	if rc == nil {
		rc = recommend.DefaultConfig()
	}
	if err := rc.Validate(); err != nil {
		return nil, models.WrapError(models.KindConfiguration, "analysis.NewAnalyzer", err, "recommender")
	}

	return &Analyzer{
		segmenter:        segmenter,
		tiers:            tiers,
		recommendConfig:  rc.Clone(),
		disableRecommend: opts.DisableRecommend,
		logger:           logger,
	}, nil
}

// Run analyzes batch. A nil or empty batch completes with StatusEmpty and
// empty outputs. On failure the returned Result carries StatusFailed and the
// error kind alongside the error itself, so callers can publish it.
//
// Segmentation and model training read the batch independently and run
// concurrently; both are deterministic for a given batch and config.
func (a *Analyzer) Run(ctx context.Context, batch *models.Batch, opts ...recommend.TrainOption) (*Result, error) {
	if batch == nil {
		batch = &models.Batch{}
	}

	result := &Result{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	ctx = logging.ContextWithRunID(ctx, result.RunID)
	logger := a.logger.With().Str("run_id", result.RunID).Logger()

	logger.Info().
		Int("transactions", len(batch.Transactions)).
		Int("catalog_products", len(batch.Catalog)).
		Msg("analysis run started")

	agg := segment.Aggregate(batch.Transactions)
	metrics.RecordSkipped("aggregate", agg.Skipped)
	if agg.Skipped > 0 {
		logger.Warn().
			Int("skipped", agg.Skipped).
			Int("processed", agg.Processed).
			Msg("invalid transactions excluded from analysis")
	}

	var (
		segments *segment.Result
		summary  *segment.Summary
		engine   *recommend.Engine
		changed  bool
	)

	pairs := batch.Pairs()
	if !a.disableRecommend {
		changed = a.universeChanged(pairs, logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		segments, err = a.segmenter.Segment(gctx, agg)
		if err != nil {
			return fmt.Errorf("segment customers: %w", err)
		}
		summary, err = segment.Summarize(batch.Transactions, agg, segments, a.tiers)
		if err != nil {
			return fmt.Errorf("summarize batch: %w", err)
		}
		return nil
	})
	if !a.disableRecommend {
		g.Go(func() error {
			var err error
			engine, err = a.train(gctx, pairs, batch.Catalog, logger, opts)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return a.fail(result, agg, err, logger), err
	}

	result.Segments = segments
	result.Summary = summary
	result.Engine = engine
	result.Stats = RunStats{
		Transactions: agg.Processed,
		Customers:    agg.Len(),
		Skipped:      agg.Skipped,
		Issues:       agg.Issues,
	}
	if engine != nil {
		status := engine.Status()
		result.Stats.TrainingExamples = status.Examples
		result.Stats.EncodeSkipped = status.Skipped
		result.Stats.UniverseChanged = changed
		a.previous.Store(engine)
	}

	result.Status = StatusOK
	if agg.Len() == 0 {
		result.Status = StatusEmpty
	}
	a.finish(result)

	sizes := make(map[string]int, len(segments.Clusters))
	for _, c := range segments.Clusters {
		sizes[c.Label] += c.Size
	}
	metrics.RecordSegmentation(sizes, segments.Iterations)
	metrics.RecordAnalysisRun(string(result.Status), result.Duration())

	logger.Info().
		Str("status", string(result.Status)).
		Int("customers", result.Stats.Customers).
		Int("skipped", result.Stats.Skipped).
		Int("training_examples", result.Stats.TrainingExamples).
		Int64("duration_ms", result.Duration().Milliseconds()).
		Msg("analysis run complete")

	return result, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (a *Analyzer) train(ctx context.Context, pairs []models.Purchase, catalog models.Catalog, logger zerolog.Logger, opts []recommend.TrainOption) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(a.recommendConfig, logger)
	if err != nil {
		return nil, models.WrapError(models.KindConfiguration, "analysis.train", err, "recommender")
	}

	start := time.Now()
	record := recommend.WithEpochCallback(func(stats recommend.EpochStats) {
		metrics.RecordEpoch(stats.Loss)
	})
	err = engine.Train(ctx, pairs, catalog, append([]recommend.TrainOption{record}, opts...)...)
	metrics.RecordTraining(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	metrics.RecordSkipped("encode", engine.Status().Skipped)
	return engine, nil
}

// universeChanged reports whether pairs fall outside the universe of the
// previous run's model. Until this run is published, recommendations are
// still served by that model.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (a *Analyzer) universeChanged(pairs []models.Purchase, logger zerolog.Logger) bool {
	prev := a.previous.Load()
	if prev == nil {
		return false
	}
	err := prev.CheckUniverse(pairs)
	if !errors.Is(err, recommend.ErrStaleModel) {
		return false
	}
	logger.Warn().Err(err).Msg("purchase universe changed since the previous run, retraining")
	return true
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (a *Analyzer) fail(result *Result, agg *segment.Aggregation, err error, logger zerolog.Logger) *Result {
	result.Status = StatusFailed
	result.ErrorKind = models.KindOf(err)
	result.Error = err.Error()
	result.Stats = RunStats{
		Transactions: agg.Processed,
		Customers:    agg.Len(),
		Skipped:      agg.Skipped,
		Issues:       agg.Issues,
	}
	a.finish(result)
	metrics.RecordAnalysisRun(string(result.Status), result.Duration())

	logger.Error().
		Err(err).
		Str("error_kind", string(result.ErrorKind)).
		Int64("duration_ms", result.Duration().Milliseconds()).
		Msg("analysis run failed")
	return result
}

func (a *Analyzer) finish(result *Result) {
	result.CompletedAt = time.Now()
	result.Stats.DurationMS = result.Duration().Milliseconds()
}
