// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package parallel splits index ranges into a fixed number of shards and
// runs them concurrently with errgroup.
//
// The shard layout depends only on the input length and the shard count,
// never on runtime.NumCPU, so callers that reduce per-shard results in shard
// order get identical output on every machine.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open index interval [Lo, Hi).
type Range struct {
	Lo int
	Hi int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Ranges splits [0, n) into at most shards contiguous, non-empty ranges.
// Earlier ranges are at most one element longer than later ones.
func Ranges(n, shards int) []Range {
	if n <= 0 {
		return nil
	}
	if shards < 1 {
		shards = 1
	}
	if shards > n {
		shards = n
	}

	out := make([]Range, 0, shards)
	size, extra := n/shards, n%shards
	lo := 0
	for s := 0; s < shards; s++ {
		hi := lo + size
		if s < extra {
			hi++
		}
		out = append(out, Range{Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}

// For runs fn once per shard of [0, n) and waits for all of them. The first
// error cancels the context passed to the remaining shards and is returned.
func For(ctx context.Context, n, shards int, fn func(ctx context.Context, shard int, r Range) error) error {
	return ForLimit(ctx, n, shards, shards, fn)
}

// ForLimit is For with at most limit shards running at once. The shard
// layout comes from n and shards alone, so limit changes scheduling but
// never which indices a shard sees.
func ForLimit(ctx context.Context, n, shards, limit int, fn func(ctx context.Context, shard int, r Range) error) error {
	ranges := Ranges(n, shards)
	if len(ranges) == 0 {
		return ctx.Err()
	}
	if len(ranges) == 1 {
		return fn(ctx, 0, ranges[0])
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for s, r := range ranges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, s, r)
		})
	}
	return g.Wait()
}
