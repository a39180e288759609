// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/parallel"
)

// KMeansConfig controls a k-means run.
type KMeansConfig struct {
	// K is the requested number of clusters. It is capped at the number of
	// distinct rows.
	K int

	// MaxIterations bounds the assignment/update loop.
	MaxIterations int

	// Tolerance stops the loop once no centroid moves further than this.
	Tolerance float64

	// Seed drives k-means++ initialization.
	Seed int64

	// Workers is the fixed shard count for the assignment step.
	Workers int
}

// Clustering is the outcome of a k-means run.
type Clustering struct {
	// K is the effective cluster count after capping.
	K int

	// Assignments[i] is the cluster index of row i.
	Assignments []int

	Centroids  [][]float64
	Sizes      []int
	Iterations int
	Converged  bool
}

// KMeans clusters rows with Lloyd's algorithm seeded by k-means++.
//
// The same rows, config and seed always produce the same clustering: the
// random source is local to the call and the assignment step reduces shard
// results in a fixed order. Distance ties go to the lower cluster index.
func KMeans(ctx context.Context, rows [][]float64, cfg KMeansConfig) (*Clustering, error) {
	if cfg.K <= 0 {
		return nil, models.NewError(models.KindConfiguration, "segment.KMeans",
			"cluster count must be positive, got %d", cfg.K)
	}
	if len(rows) == 0 {
		return &Clustering{}, nil
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	k := cfg.K
	if distinct := countDistinct(rows); k > distinct {
		k = distinct
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // G404: deterministic seeding, not security
	centroids := seedCentroids(rows, k, rng)
	k = len(centroids)

	assign := make([]int, len(rows))
	for i := range assign {
		assign[i] = -1
	}

	result := &Clustering{K: k}
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		changed, err := assignRows(ctx, rows, centroids, assign, cfg.Workers)
		if err != nil {
			return nil, err
		}

		next := updateCentroids(rows, assign, centroids)
		shift := maxShift(centroids, next)
		centroids = next
		result.Iterations = iter

		if changed == 0 || shift <= cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Assignments = assign
	result.Centroids = centroids
	result.Sizes = make([]int, k)
	for _, c := range assign {
		result.Sizes[c]++
	}
	return result, nil
}

// seedCentroids picks k initial centroids with k-means++: the first uniformly,
// each next one with probability proportional to its squared distance from
// the nearest centroid chosen so far.
func seedCentroids(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(rows[rng.Intn(n)]))

	dist := make([]float64, n)
	for len(centroids) < k {
		sum := 0.0
		for i, row := range rows {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := squaredDistance(row, c); sd < d {
					d = sd
				}
			}
			dist[i] = d
			sum += d
		}
		if sum == 0 {
			break
		}

		target := rng.Float64() * sum
		pick, lastPositive := -1, -1
		acc := 0.0
		for i, d := range dist {
			if d <= 0 {
				continue
			}
			lastPositive = i
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		if pick < 0 {
			pick = lastPositive
		}
		centroids = append(centroids, cloneRow(rows[pick]))
	}
	return centroids
}

// assignRows moves every row to its nearest centroid and returns how many
// rows changed cluster.
func assignRows(ctx context.Context, rows, centroids [][]float64, assign []int, workers int) (int, error) {
	changed := make([]int, workers)
	err := parallel.For(ctx, len(rows), workers, func(_ context.Context, shard int, r parallel.Range) error {
		for i := r.Lo; i < r.Hi; i++ {
			best := nearest(rows[i], centroids)
			if best != assign[i] {
				assign[i] = best
				changed[shard]++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, c := range changed {
		total += c
	}
	return total, nil
}

// updateCentroids recomputes each centroid as the mean of its members. A
// cluster that lost all members keeps its previous centroid.
func updateCentroids(rows [][]float64, assign []int, prev [][]float64) [][]float64 {
	width := len(rows[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, width)
	}
	for i, row := range rows {
		c := assign[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}

	next := make([][]float64, len(prev))
	for c := range next {
		if counts[c] == 0 {
			next[c] = cloneRow(prev[c])
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		next[c] = sums[c]
	}
	return next
}

func nearest(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func maxShift(a, b [][]float64) float64 {
	shift := 0.0
	for c := range a {
		if d := math.Sqrt(squaredDistance(a[c], b[c])); d > shift {
			shift = d
		}
	}
	return shift
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return sum
}

func countDistinct(rows [][]float64) int {
	seen := make(map[string]struct{}, len(rows))
	var sb strings.Builder
	for _, row := range rows {
		sb.Reset()
		for _, v := range row {
			sb.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
			sb.WriteByte(',')
		}
		seen[sb.String()] = struct{}{}
	}
	return len(seen)
}

func cloneRow(row []float64) []float64 {
	return append([]float64(nil), row...)
}
