// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package cache provides a thread-safe LRU cache with TTL expiration.
//
// The API caches recommendation responses under keys that include the run
// ID, so a new analysis run never serves a previous run's answers. Capacity
// bounds memory; the TTL only ages out entries of runs nobody asks about any
// more.
//
//	c := cache.NewLRU[*recommend.Response](1024, 10*time.Minute)
//	if resp, ok := c.Get(key); ok {
//	    return resp
//	}
//	c.Add(key, resp)
package cache
