// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/parallel"
)

// gradientShards is the number of accumulators a mini-batch gradient is
// split across. Shards are summed in index order, so it fixes the
// floating-point reduction order independently of Training.Workers.
const gradientShards = 8

// TrainOption customizes a training call.
type TrainOption func(*trainOptions)

type trainOptions struct {
	onEpoch []func(EpochStats)
}

// WithEpochCallback registers fn to run after every epoch. Callbacks run on
// the training goroutine and must not block for long.
func WithEpochCallback(fn func(EpochStats)) TrainOption {
	return func(o *trainOptions) {
		if fn != nil {
			o.onEpoch = append(o.onEpoch, fn)
		}
	}
}

// Train fits a network to ds: one-hot customer input, ReLU hidden layers,
// softmax over NumProducts outputs, Adam on mean categorical cross-entropy.
//
// Cost is bounded by Epochs * ceil(examples / BatchSize) optimizer steps.
// Weight initialization and per-epoch shuffling use a source seeded from the
// config, and gradients are summed over a fixed shard layout in shard order,
// so identical inputs yield identical models whatever Training.Workers is.
func Train(ctx context.Context, ds *Dataset, cfg *Config, opts ...TrainOption) (*Model, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, models.WrapError(models.KindConfiguration, "recommend.Train", err, "invalid config")
	}
	if ds == nil || ds.Len() == 0 {
		return nil, models.NewError(models.KindEmptyInput, "recommend.Train", "no training examples")
	}

	var options trainOptions
	for _, opt := range opts {
		opt(&options)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // G404: deterministic seeding, not security

	sizes := make([]int, 0, len(cfg.Network.HiddenLayers)+2)
	sizes = append(sizes, ds.Universe.NumCustomers)
	sizes = append(sizes, cfg.Network.HiddenLayers...)
	sizes = append(sizes, ds.Universe.NumProducts)
	net := newNetwork(sizes, rng)

	params := net.params()
	optimizer := newAdam(cfg.Training, params)

	workers := cfg.Training.Workers
	shards := make([]*gradients, min(gradientShards, cfg.Training.BatchSize))
	for s := range shards {
		shards[s] = newGradients(net)
	}
	total := newGradients(net)

	n := ds.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	epochs := cfg.Training.Epochs
	batchSize := cfg.Training.BatchSize
	history := make([]EpochStats, 0, epochs)

	for epoch := 1; epoch <= epochs; epoch++ {
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		epochLoss, epochCorrect := 0.0, 0
		for start := 0; start < n; start += batchSize {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("training canceled at epoch %d: %w", epoch, err)
			}

			end := min(start+batchSize, n)
			batch := order[start:end]

			err := parallel.ForLimit(ctx, len(batch), gradientShards, workers, func(_ context.Context, shard int, r parallel.Range) error {
				g := shards[shard]
				for _, j := range batch[r.Lo:r.Hi] {
					g.backprop(net, ds.Customers[j], ds.Labels[j])
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("training canceled at epoch %d: %w", epoch, err)
			}

			for s := range parallel.Ranges(len(batch), gradientShards) {
				shards[s].mergeInto(total, net)
				shards[s].reset(net)
			}
			optimizer.update(params, total.tensors, 1/float64(len(batch)))

			epochLoss += total.loss
			epochCorrect += total.correct
			total.reset(net)
		}

		stats := EpochStats{
			Epoch:    epoch,
			Epochs:   epochs,
			Loss:     epochLoss / float64(n),
			Accuracy: float64(epochCorrect) / float64(n),
		}
		history = append(history, stats)
		for _, fn := range options.onEpoch {
			fn(stats)
		}
	}

	return &Model{
		net:       net,
		universe:  ds.Universe,
		trainedAt: time.Now(),
		history:   history,
		examples:  n,
	}, nil
}
